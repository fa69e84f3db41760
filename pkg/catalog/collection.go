package catalog

import "fmt"

// Named is implemented by catalog entities keyed by a unique name.
type Named interface {
	EntityName() string
}

// Collection is an ordered, name-keyed set of catalog entities: a map with
// insertion-order iteration and a uniqueness check on insert. It is not
// thread-safe; collections belong to a single snapshot which is immutable
// once published.
type Collection[T Named] struct {
	byName map[string]T
	order  []string
}

// NewCollection returns an empty collection.
func NewCollection[T Named]() *Collection[T] {
	return &Collection[T]{byName: make(map[string]T)}
}

// Add inserts an entity, rejecting duplicate names.
func (c *Collection[T]) Add(entity T) error {
	name := entity.EntityName()
	if _, exists := c.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateEntity, name)
	}
	c.byName[name] = entity
	c.order = append(c.order, name)
	return nil
}

// Get returns the entity with the given name.
func (c *Collection[T]) Get(name string) (T, bool) {
	entity, ok := c.byName[name]
	return entity, ok
}

// Names returns entity names in insertion order.
func (c *Collection[T]) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// All returns the entities in insertion order.
func (c *Collection[T]) All() []T {
	entities := make([]T, 0, len(c.order))
	for _, name := range c.order {
		entities = append(entities, c.byName[name])
	}
	return entities
}

// Len returns the number of entities.
func (c *Collection[T]) Len() int {
	return len(c.order)
}
