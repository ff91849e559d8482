/*
Package bypass implements an ordered multi-valued registry mapping settings
to bindings. It backs per-call overrides (“bypasses”) of named behaviors in
logging-style dispatchers, but is a general-purpose container.

We implement:

1. Registries, ordered mappings from a unique setting name to an ordered
list of fixed-arity value tuples (bindings).

2. Schemas, fixed per-registry-kind declarations of binding arity, column
defaults and named views.

3. Views, live read-through projections over selected columns of a registry.
Views never cache; they re-walk the backing registry on every access.

4. Composite indexing, resolving a setting name, an integer position, a
position span, a tuple of any of those, or the wildcard against the same
registry, for selection, assignment and deletion alike.

5. A structural algebra: merge, subtract, rotation, binding-count filters,
and union/intersection/symmetric difference evaluated over complete
(setting, binding) pairs.

# Technical Details

**Order.**
Settings iterate in insertion order; each setting's bindings preserve append
order. Both orders are observable and semantically significant: views reflect
them and the rotation operators act on them.

**Multiplicity.**
A setting is unique within a registry. Inserting an already-present setting
appends another binding to its list instead of creating a duplicate entry.
A setting may also exist with zero bindings (“unbound”).

**Atomicity.**
Validation errors are reported at the offending element and leave the
registry in the state it had before that element was processed. A multi-row
Update is prefix-applied, not transactional: rows before the failing one
stay applied.

**Concurrency.**
A registry is a plain in-memory structure with no internal synchronization,
designed for one logical caller at a time. Callers sharing a registry across
goroutines must provide external mutual exclusion covering both mutation and
view iteration, since views are not snapshot-isolated.

## Snapshot encoding

Registries marshal to a compact snapshot, by default in msgpack:

1. Schema name and binding arity.
2. Entries in order: setting, then bindings in order.

Decoding validates the arity against the receiving registry's schema and
replaces the contents wholesale. The snapshot is an interchange format, not
a persistence layer; value types round-trip only as far as the underlying
codec allows.
*/
package bypass
