// Package loader parses YAML catalog documents into validated catalog
// snapshots.
//
// A document describes one dated catalog version: currencies, units,
// products, plans with their phases and price tables, price lists and the
// plan rule table. Defaults for omitted optional fields (price list
// membership, bundle cardinality, terminal phase type and duration, billing
// period sentinels) are assigned explicitly during conversion, so the
// resulting snapshot never carries unset optional fields.
//
//	snapshot, err := loader.Parse(data)
//	if err != nil {
//	    var verrs catalog.ValidationErrors
//	    if errors.As(err, &verrs) {
//	        // structural problems, all of them
//	    }
//	}
//	_ = versioned.Add(snapshot)
package loader
