package graph

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// DefaultMaxDepth bounds the nesting of [...] and {...} blocks.
const DefaultMaxDepth = 64

// Option customizes a parser.
type Option func(*parser)

// MaxDepth overrides the maximum nesting depth.
func MaxDepth(depth int) Option {
	return func(p *parser) {
		p.maxDepth = depth
	}
}

// Parse reads a Graph Text Format document into a new anonymous root node.
// The graph is left untouched when an error is returned.
func (g *Graph) Parse(text string, options ...Option) (*Node, error) {
	sp := g.Savepoint()
	root := g.NewObject()
	if err := g.parse(root, text, options...); err != nil {
		g.Rollback(sp)
		return nil, err
	}
	g.Release(sp)
	return root, nil
}

// ParseInto reads a Graph Text Format document into an existing node.
// The graph is left untouched when an error is returned.
func (g *Graph) ParseInto(target *Node, text string, options ...Option) error {
	sp := g.Savepoint()
	if err := g.parse(target, text, options...); err != nil {
		g.Rollback(sp)
		return err
	}
	g.Release(sp)
	return nil
}

func (g *Graph) parse(target *Node, text string, options ...Option) error {
	p := &parser{
		graph:     g,
		lex:       newLexer(text),
		maxDepth:  DefaultMaxDepth,
		variables: make(map[string]*Node),
		used:      make(map[string]bool),
	}
	for _, option := range options {
		option(p)
	}
	return p.parseBody(target, "", 0)
}

type parser struct {
	graph    *Graph
	lex      *lexer
	peeked   *token
	maxDepth int

	// Constructor parameters bound by the last signature
	variables map[string]*Node
	used      map[string]bool
}

// term is a slot of the statement buffer.
type term struct {
	tok  token
	node *Node
}

func (p *parser) next() (token, error) {
	if p.peeked != nil {
		tok := *p.peeked
		p.peeked = nil
		return tok, nil
	}
	return p.lex.next()
}

func (p *parser) unread(tok token) {
	p.peeked = &tok
}

func (p *parser) errorAt(tok token, format string, args ...any) error {
	return p.lex.errorf(tok.line, tok.column, format, args...)
}

// statement is the state of the statement being read inside a scope.
type statement struct {
	scope   *Node
	subject *Node
	buffer  []term

	// Continues the last list of values after a comma
	continueWith func(*Node)
	continuation bool
}

func (p *parser) parseBody(scope *Node, closing string, depth int) error {
	if depth > p.maxDepth {
		tok, _ := p.next()
		return p.errorAt(tok, "nesting too deep (max %d)", p.maxDepth)
	}
	st := &statement{
		scope:   scope,
		subject: scope,
	}

	for {
		tok, err := p.next()
		if err != nil {
			return err
		}

		switch {
		case tok.kind == tokenEOF:
			switch closing {
			case "]":
				return p.errorAt(tok, "unexpected end of nested object")
			case "}":
				return p.errorAt(tok, "unexpected end of scope")
			}
			return p.flush(st)

		case tok.isOperator("]"), tok.isOperator("}"):
			if tok.value != closing {
				switch closing {
				case "]":
					return p.errorAt(tok, "unexpected end of nested object")
				case "}":
					return p.errorAt(tok, "unexpected end of scope")
				}
				return p.errorAt(tok, "unexpected token %q", tok.value)
			}
			return p.flush(st)

		case tok.isOperator(";"), tok.isOperator("."):
			if err := p.flush(st); err != nil {
				return err
			}
			st.continuation = false
			st.continueWith = nil

		case tok.isOperator(","):
			if err := p.flush(st); err != nil {
				return err
			}
			st.continuation = st.continueWith != nil

		case tok.isOperator("["):
			nested := p.graph.NewObject()
			if err := p.parseBody(nested, "]", depth+1); err != nil {
				return err
			}
			if err := p.push(st, term{tok: tok, node: nested}); err != nil {
				return err
			}

		case tok.isOperator("{"):
			target := st.subject
			if len(st.buffer) > 0 {
				last := &st.buffer[len(st.buffer)-1]
				node := p.resolve(last)
				if node.Type != Object {
					return p.errorAt(tok, "unexpected scope on %s", node.Type)
				}
				target = node
			}
			if err := p.parseBody(target, "}", depth+1); err != nil {
				return err
			}

		case tok.isOperator("("):
			if err := p.parseSignature(st, tok); err != nil {
				return err
			}

		case tok.isOperator("="):
			if err := p.parseInvocation(st, tok, depth); err != nil {
				return err
			}

		case tok.kind == tokenVariable:
			node, ok := p.variables[tok.value]
			if !ok {
				return p.errorAt(tok, "use of undefined variable: %s", tok.value)
			}
			p.used[tok.value] = true
			if err := p.push(st, term{tok: tok, node: node}); err != nil {
				return err
			}

		case tok.kind == tokenOperator:
			return p.errorAt(tok, "unexpected token %q", tok.value)

		default:
			if err := p.push(st, term{tok: tok}); err != nil {
				return err
			}
		}
	}
}

func (p *parser) push(st *statement, t term) error {
	if len(st.buffer) == 3 {
		return p.errorAt(t.tok, "triple buffer overflowed")
	}
	st.buffer = append(st.buffer, t)
	return nil
}

// resolve returns the node of a term, creating it on first use.
func (p *parser) resolve(t *term) *Node {
	if t.node != nil {
		return t.node
	}
	g := p.graph
	switch t.tok.kind {
	case tokenIdentifier:
		if t.tok.value == "_" {
			t.node = g.NewObject()
		} else {
			t.node = g.GetOrCreate(t.tok.value, Object)
		}
	case tokenString:
		t.node = g.newLiteral(String, t.tok.value)
	case tokenInteger:
		t.node = g.newLiteral(Integer, t.tok.value)
	case tokenDouble:
		t.node = g.newLiteral(Double, t.tok.value)
	case tokenURI:
		t.node = g.NewURI(t.tok.value)
	default:
		panic(fmt.Sprintf("graph: unexpected term %s", t.tok.kind))
	}
	return t.node
}

// predicate returns the predicate name of a term.
// A variable stands for the identity of the parameter it is bound to.
func (p *parser) predicate(t term) (string, error) {
	if t.tok.kind == tokenVariable && t.node != nil && !t.node.IsAnonymous() {
		return t.node.ID, nil
	}
	if t.tok.kind != tokenIdentifier || t.tok.value == "_" || t.node != nil {
		return "", p.errorAt(t.tok, "unexpected predicate type: %s", t.tok.kind)
	}
	return t.tok.value, nil
}

// flush applies the buffered statement.
func (p *parser) flush(st *statement) error {
	defer func() {
		st.buffer = st.buffer[:0]
	}()

	switch len(st.buffer) {
	case 0:
		return nil

	case 1:
		value := p.resolve(&st.buffer[0])
		if st.continuation && st.continueWith != nil {
			st.continueWith(value)
			return nil
		}
		scope := st.scope
		scope.AddFloating(value)
		st.continueWith = func(v *Node) { scope.AddFloating(v) }

	case 2:
		predicate, err := p.predicate(st.buffer[0])
		if err != nil {
			return err
		}
		subject := st.subject
		if predicate == PredicateID {
			idTerm := st.buffer[1]
			if idTerm.node != nil || (idTerm.tok.kind != tokenIdentifier && idTerm.tok.kind != tokenString) {
				return p.errorAt(idTerm.tok, "unexpected identity type: %s", idTerm.tok.kind)
			}
			if !IsIdentifier(idTerm.tok.value) {
				return p.errorAt(idTerm.tok, "invalid identity %q", idTerm.tok.value)
			}
			if err := p.graph.SetID(subject, idTerm.tok.value); err != nil {
				return p.errorAt(idTerm.tok, "%v", err)
			}
			st.continueWith = nil
			return nil
		}
		value := p.resolve(&st.buffer[1])
		subject.Add(predicate, value)
		st.continueWith = func(v *Node) { subject.Add(predicate, v) }

	case 3:
		subject := p.resolve(&st.buffer[0])
		if subject.Type != Object && subject.Type != URI {
			return p.errorAt(st.buffer[0].tok, "unexpected subject type: %s", subject.Type)
		}
		predicate, err := p.predicate(st.buffer[1])
		if err != nil {
			return err
		}
		value := p.resolve(&st.buffer[2])
		subject.Add(predicate, value)
		if subject != st.scope && !st.scope.ContainsFloating(subject) {
			st.scope.AddFloating(subject)
		}
		st.subject = subject
		st.continueWith = func(v *Node) { subject.Add(predicate, v) }
	}
	st.continuation = false
	return nil
}

// parseSignature reads "ctor(?p1, ?p2)".
func (p *parser) parseSignature(st *statement, open token) error {
	if len(st.buffer) != 1 || st.buffer[0].tok.kind != tokenIdentifier || st.buffer[0].node != nil {
		return p.errorAt(open, "constructor signature at unexpected position")
	}
	name := st.buffer[0].tok.value
	constructor := p.resolve(&st.buffer[0])

	index := 0
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch {
		case tok.isOperator(")"):
			return nil
		case tok.isOperator(","):
			continue
		case tok.kind == tokenVariable:
			index++
			parameter := p.graph.GetOrCreate(fmt.Sprintf("__%s_p%d", name, index), Object)
			parameter.AddObject(PredicateType, "parameter")
			parameter.AddString(PredicateName, tok.value)
			constructor.Add("has-parameter", parameter)
			p.variables[tok.value] = parameter
		case tok.kind == tokenEOF:
			return p.errorAt(tok, "unexpected end of parameter list in constructor signature")
		default:
			return p.errorAt(tok, "unexpected token in constructor signature parameters: %q (%s)", tok.value, tok.kind)
		}
	}
}

// parseInvocation reads "instance = Ctor { ... }".
func (p *parser) parseInvocation(st *statement, equal token, depth int) error {
	if len(st.buffer) != 1 || st.buffer[0].tok.kind != tokenIdentifier || st.buffer[0].node != nil {
		return p.errorAt(equal, "constructor body at unexpected position")
	}
	name := st.buffer[0].tok.value
	if p.graph.Lookup(name) != nil {
		return p.errorAt(st.buffer[0].tok, "duplicate instances: %s", name)
	}
	instance := p.graph.GetOrCreate(name, Object)

	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.kind == tokenIdentifier {
		instance.AddObject(PredicateType, tok.value)
		if tok, err = p.next(); err != nil {
			return err
		}
	}
	if tok.isOperator("{") {
		if err := p.parseBody(instance, "}", depth+1); err != nil {
			return err
		}
		var unused []string
		for variable := range p.variables {
			if !p.used[variable] {
				unused = append(unused, variable)
			}
		}
		slices.Sort(unused)
		for _, variable := range unused {
			instance.Add(variable, p.variables[variable])
		}
		p.variables = make(map[string]*Node)
		p.used = make(map[string]bool)
	} else {
		p.unread(tok)
	}

	st.scope.AddFloating(instance)
	st.buffer = st.buffer[:0]
	st.continueWith = nil
	return nil
}
