/*
Package errors provides semantic error types for the EntityGraph library.

Every failure carries a kind sentinel that can be checked with the standard
errors.Is() function, plus the entity, key or field it was raised for:

	var (
	    ErrInvalidEntityName    = errors.New("invalid entity name")
	    ErrKeyNotFound          = errors.New("key not found")
	    ErrUnresolvableKeyField = errors.New("unresolvable key field")
	    ErrMissingSetName       = errors.New("missing set name")
	    ...
	)

Error structs group the kinds by the stage that raises them:

  - DefinitionError: schema definition (names, primary fields, enums)
  - ReferenceError: registry lookups (entities, enums, type references)
  - KeyError: key resolution and key value construction
  - AggregateError: graph aggregation (paths, set names, merge policies)

Usage:

	g, err := agg.Aggregate(ctx, g, spec)
	if err != nil {
	    var ke *errors.KeyError
	    if errors.As(err, &ke) {
	        log.Printf("key %s on %s failed at %s", ke.Key, ke.Entity, ke.Field)
	    }
	    return err
	}

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
