package pathway

// TypeDefinition is the node type of a schema root.
const TypeDefinition StepType = "definition"

// Node represents a node in the schema tree of a definition.
// It provides a serializable representation of the step structure
// for visualization, debugging, and tooling.
//
// Key is set for assignment steps only. Children are set for Around steps
// and for the root node.
//
// Example:
//
//	schema := def.Schema()
//	data, _ := json.MarshalIndent(schema, "", "  ")
//	fmt.Println(string(data))
type Node struct {
	Name     Name     `json:"name"`
	Type     StepType `json:"type"`
	Key      Key      `json:"key,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

// Schema represents the complete step tree of a definition.
type Schema struct {
	Root      Node `json:"root"`
	ResultKey Key  `json:"result_key"`
}

// Schema describes the definition's steps without executing them.
func (d *Definition) Schema() Schema {
	return Schema{
		Root: Node{
			Name:     d.name,
			Type:     TypeDefinition,
			Children: nodes(d.steps),
		},
		ResultKey: d.resultKey,
	}
}

func nodes(steps []Step) []Node {
	if len(steps) == 0 {
		return nil
	}
	out := make([]Node, len(steps))
	for i := range steps {
		out[i] = Node{
			Name:     steps[i].name,
			Type:     steps[i].typ,
			Key:      steps[i].key,
			Children: nodes(steps[i].steps),
		}
	}
	return out
}

// Walk traverses the schema tree, calling fn for each node.
// Traversal is depth-first, pre-order.
func (s Schema) Walk(fn func(Node)) {
	walkNode(s.Root, fn)
}

func walkNode(node Node, fn func(Node)) {
	fn(node)
	for _, child := range node.Children {
		walkNode(child, fn)
	}
}

// Find returns the first node matching the predicate, or nil if not found.
func (s Schema) Find(predicate func(Node) bool) *Node {
	var result *Node
	s.Walk(func(node Node) {
		if result == nil && predicate(node) {
			result = &node
		}
	})
	return result
}

// FindByName returns the first node with the given name, or nil if not found.
func (s Schema) FindByName(name Name) *Node {
	return s.Find(func(n Node) bool {
		return n.Name == name
	})
}

// FindByType returns all nodes of the given type.
func (s Schema) FindByType(typ StepType) []Node {
	var results []Node
	s.Walk(func(node Node) {
		if node.Type == typ {
			results = append(results, node)
		}
	})
	return results
}

// Count returns the total number of nodes in the schema, root included.
func (s Schema) Count() int {
	count := 0
	s.Walk(func(_ Node) {
		count++
	})
	return count
}
