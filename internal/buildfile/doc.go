// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package buildfile loads build definitions written in HCL.
//
// A build is the union of every .hcl file found under a path. Each file may
// declare any number of task blocks, which become template specs, and
// template_options blocks, which set options shared by every invocation of a
// template:
//
//	template_options "npm" {
//	  auto_install = true
//	}
//
//	task "build" {
//	  template = "babel"
//	  targets  = ["lib/#.js"]
//	  deps     = ["src/#.js"]
//	  options {
//	    presets = ["@babel/preset-env"]
//	  }
//	}
//
// Option values must be literals. They are kept as cty values and checked
// against the template's schema during expansion, not here.
package buildfile
