// Package harness runs request scenarios against the compiler and compares
// the output with golden files.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: export_anchor_filter
//	description: "Anchor filter is spliced into the export skeleton"
//	kind: export            # query | export
//	default_limit: 10       # optional system cap
//	export:                 # optional skeleton overrides
//	  anchor_label: Document
//	request:                # inline YAML or a JSON string
//	  queries:
//	    - matches: [...]
//	expect:
//	  error: AMBIGUITY      # optional: SHAPE | AMBIGUITY | MALFORMED
//	  contains: ["WHERE doc.path STARTS WITH"]
//	  not_contains: ["DISTINCT"]
//	  warnings: 0           # optional count of reference warnings
//
// # Golden Files
//
// The golden snapshot of a scenario is its compiled text followed by a
// newline, or "error: <CODE>" when compilation fails. RunWithGolden stores
// snapshots under testdata/golden/{name}.golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/export_default.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
