// Package harness runs conformance scenarios against the record engine.
//
// A scenario is a YAML file naming a set of users, a sequence of
// instructions with their expected outcomes, and assertions on the final
// store. Users, addresses and derived addresses are referred to by name;
// names map to deterministic keys through testutil, so a scenario's
// trace and final state render without any raw keys and can be compared
// against golden snapshots.
//
//	name: alias_lifecycle
//	description: A user registers, renames and removes an alias
//	users: [alice]
//	steps:
//	  - op: create_alias
//	    as: alice
//	    args: {alias: Erwin}
//	    save: alice_alias
//	  - op: update_alias
//	    as: alice
//	    address: alice_alias
//	    args: {alias: Smith}
//	assertions:
//	  - type: record
//	    address: alice_alias
//	    expect: {alias: Smith}
//
// Every step runs through engine.Apply in a fresh in-memory store; the
// outcome of each step is compared with its expect field ("ok" when
// omitted).
package harness
