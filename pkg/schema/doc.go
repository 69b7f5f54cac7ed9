// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package schema compiles rule documents into validators and checks YAML
// data against them.
//
// A schema is itself YAML: scalar values are validator expressions such
// as str(min=3) or list(include('dataset')), nested maps describe the
// structure of the data map. Additional documents in the schema file
// define named includes.
package schema
