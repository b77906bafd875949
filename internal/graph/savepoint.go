package graph

// Savepoint marks a state of the graph that can be restored.
type Savepoint struct {
	offset int
	depth  int
}

// Savepoint starts recording mutations.
// Every savepoint must be either rolled back or released.
func (g *Graph) Savepoint() Savepoint {
	g.savepoints++
	return Savepoint{
		offset: len(g.journal),
		depth:  g.savepoints,
	}
}

// Rollback undoes every mutation performed since the savepoint.
func (g *Graph) Rollback(sp Savepoint) {
	for i := len(g.journal) - 1; i >= sp.offset; i-- {
		g.journal[i]()
	}
	g.journal = g.journal[:sp.offset]
	g.end(sp)
}

// Release keeps the mutations performed since the savepoint.
func (g *Graph) Release(sp Savepoint) {
	g.end(sp)
}

func (g *Graph) end(sp Savepoint) {
	if sp.depth != g.savepoints {
		panic("graph: savepoints must be closed in reverse order")
	}
	g.savepoints--
	if g.savepoints == 0 {
		g.journal = nil
	}
}

func (g *Graph) record(undo func()) {
	if g == nil || g.savepoints == 0 {
		return
	}
	g.journal = append(g.journal, undo)
}
