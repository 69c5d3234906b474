// Package docloader reads project, line and flow documents from HCL or YAML
// files into an in-memory document store.
//
// # File Layout
//
// A file declares one or more projects. Lines nest inside a project and
// flows nest inside a line. Every level may declare dictionary variables;
// flows additionally declare ordinary program parameters:
//
//	project "render" {
//	  var "width" {
//	    type  = "int"
//	    value = 4
//	  }
//
//	  line "main" {
//	    flow "frames" {
//	      var "iter" {
//	        type  = "int"
//	        value = 0
//	        step  = 1
//	        count = "width"
//	      }
//	      param "output" {
//	        type     = "file"
//	        value    = "frame_[iter].png"
//	        required = true
//	      }
//	    }
//	  }
//	}
//
// The YAML form carries the same tree, either as a list of projects or as a
// single project mapping.
//
// Values are kept as raw expression text. Names are not checked here; the
// validator reports bad names when the documents are bound.
package docloader
