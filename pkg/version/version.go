// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package version

// Version of the esmcheck binary. Schema files may demand a minimum
// version via the _version pragma.
const Version = "0.1.0"
