// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of
esmcheck.

This codebase is intentionally organized into well-defined layers. Packages
have been designed to be dependent on each other only to the degree absolutely
required.

# Entry Point

esmcheck is built into two executable formats:

	./cmd/esmcheck          // a command-line tool
	./cmd/esmcheck-lambda   // an AWS Lambda function serving the validation API

# Commands

There are half-a-dozen commands. The most commonly used is "validate".

	pkg/cmd
	pkg/cmd/ui

# Validation

The heart of esmcheck is checking a YAML structure against a schema whose
values are rules such as str(), int(min=0) or include('dataset'). Custom rules
are Starlark functions loaded at runtime.

	pkg/schema

Variable metadata is additionally checked against CMOR variable tables.

	pkg/cmortable

# Data Plumbing

Dataset files are located on disk through per-project directory and file name
templates, and per-directory metadata files are written for downstream tools.

	pkg/datafinder
	pkg/metadata

# YAML Structures

esmcheck delegates parsing YAML to the de facto standard YAML library
(https://github.com/go-yaml/yaml/tree/v3). However, it needs to store
additional information about nodes (positions, processing hints). It does this
by converting the output from the standard YAML parser into a composite tree
of its own yamlmeta.Node structure that can hold that metadata.

	pkg/yamlmeta
	pkg/orderedmap
	pkg/filepos

# Serving

The validation engine is also exposed over HTTP, with run history persisted in
a local sqlite database.

	pkg/server
	pkg/reportstore

# Utilities

Finally, there is a collection of supporting features: file and source
handling, YAML formatting ("fmt" command), configuration, and flag-gated
experiments.

	pkg/files
	pkg/yamlfmt
	pkg/config
	pkg/experiments
	pkg/version
*/
package pkg
