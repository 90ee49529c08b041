package workflow

// BuildForest partitions steps into roots and children, preserving the input
// order at every level. Steps whose parent is not present in the input are
// treated as roots so no step is ever dropped. The id lookup is local to the
// call; the returned nodes share nothing with it.
func BuildForest(steps []WorkflowStep) []*StepTreeNode {
	nodes := make(map[string]*StepTreeNode, len(steps))
	ordered := make([]*StepTreeNode, 0, len(steps))
	for _, step := range steps {
		node := &StepTreeNode{WorkflowStep: step, Children: []*StepTreeNode{}}
		nodes[step.ID.String()] = node
		ordered = append(ordered, node)
	}

	roots := make([]*StepTreeNode, 0, len(steps))
	for _, node := range ordered {
		if node.ParentStepID != nil {
			if parent, ok := nodes[node.ParentStepID.String()]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
