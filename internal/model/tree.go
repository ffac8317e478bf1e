package model

import "sort"

// Node is a container together with its ordered children.
type Node struct {
	Container ContainerSnapshot
	Committed bool
	Children  []Child
}

// Child is either a nested container or a field. Exactly one of the pointers
// is set.
type Child struct {
	Node  *Node
	Field *FieldSnapshot
}

// Order returns the effective order of the child.
func (c Child) Order() int {
	switch {
	case c.Node != nil:
		return c.Node.Container.Order
	case c.Field != nil:
		return c.Field.Order
	default:
		return 0
	}
}

// Tree arranges the model into sections with nested children. Siblings are
// sorted by order; ties keep declaration order. Fields whose container was
// never emitted are returned separately so callers can report them.
func (m *Model) Tree() (sections []Node, orphans []FieldSnapshot) {
	containers := m.Containers()
	fields := m.Fields()

	byParent := make(map[string][]ContainerSnapshot)
	for _, container := range containers {
		if container.Kind == ElementSection {
			continue
		}
		byParent[container.ParentID] = append(byParent[container.ParentID], container)
	}

	fieldsByContainer := make(map[string][]FieldSnapshot)
	for _, field := range fields {
		if _, ok := m.containers[field.ContainerID]; !ok {
			orphans = append(orphans, field)
			continue
		}
		fieldsByContainer[field.ContainerID] = append(fieldsByContainer[field.ContainerID], field)
	}

	var build func(container ContainerSnapshot, depth int) Node
	build = func(container ContainerSnapshot, depth int) Node {
		node := Node{Container: container, Committed: m.Committed(container.ID)}
		type positioned struct {
			child    Child
			position int
		}
		var children []positioned
		if depth < maxDepth {
			for _, nested := range byParent[container.ID] {
				child := build(nested, depth+1)
				children = append(children, positioned{
					child:    Child{Node: &child},
					position: m.positions[containerPosition(nested.ID)],
				})
			}
		}
		for idx := range fieldsByContainer[container.ID] {
			field := fieldsByContainer[container.ID][idx]
			children = append(children, positioned{
				child:    Child{Field: &field},
				position: m.positions[fieldPosition(field.ID)],
			})
		}
		sort.SliceStable(children, func(i, j int) bool {
			left, right := children[i].child.Order(), children[j].child.Order()
			if left == right {
				return children[i].position < children[j].position
			}
			return left < right
		})
		node.Children = make([]Child, 0, len(children))
		for _, entry := range children {
			node.Children = append(node.Children, entry.child)
		}
		return node
	}

	for _, container := range containers {
		if container.Kind != ElementSection {
			continue
		}
		sections = append(sections, build(container, 0))
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Container.Order < sections[j].Container.Order
	})
	return sections, orphans
}

// maxDepth bounds nesting so a parent cycle in malformed events cannot recurse
// forever.
const maxDepth = 32
