// Package output renders command results.
//
// Results are built as ordered Objects so that the key order an operator
// sees ("Device", then "Device Group", then "Product") is the order the
// command assembled them in, in both output formats:
//
//   - minimal: YAML via gopkg.in/yaml.v3 (the default, human oriented)
//   - json:    indented JSON with the same nesting, for scripting
package output
