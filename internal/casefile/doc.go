// Package casefile loads stats API test cases declared in HCL.
//
// A case file holds any number of `case` blocks:
//
//	case "css-disabled" {
//	  compiler = "bundler"
//	  snapshot = "__snapshots__/css-disabled.json"
//
//	  options {
//	    context = "${case_dir}/fixtures/css"
//	    entry   = { main = "./index.js" }
//	    experiments {
//	      css = false
//	    }
//	  }
//
//	  expect {
//	    errors         = 1
//	    error_contains = ["experiments.css"]
//	  }
//	}
//
// Expressions are evaluated with the `case_dir` variable (the directory of
// the file) and the `env(name)` function. Relative paths are resolved
// against the file's directory.
package casefile
