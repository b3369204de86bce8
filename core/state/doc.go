// Package state provides the shared mutable container node invocations read
// from and write to, plus the schema utilities workflows use to declare what
// that container holds.
//
// [State] is a plain string-keyed map mutated in place by each invocation.
// The engine maintains the reserved bookkeeping keys ([KeyCurrentNodeType],
// [KeyPreviousNodeType], [KeyMessages]); everything else belongs to the
// caller. Read typed values back with [ValueAs].
//
// Schema declarations written as strings ("str", "List[int]",
// "Dict[str, List[float]]", "Union[int, str]") resolve to structural
// [TypeSpec] descriptors via [ResolveType]; [ProcessDefinitions] normalizes
// whole schema documents into named [Definition] records.
package state
