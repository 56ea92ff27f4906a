package ir

// WalkExpression visits e and its sub-expressions pre-order. Returning false
// from fn skips the children of the current node.
func WalkExpression(e Expression, fn func(Expression) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch n := e.(type) {
	case *Unary:
		WalkExpression(n.Argument, fn)
	case *Binary:
		WalkExpression(n.Left, fn)
		WalkExpression(n.Right, fn)
	case *Call:
		WalkExpression(n.Callee, fn)

		for _, a := range n.Args {
			WalkExpression(a, fn)
		}
	case *Member:
		WalkExpression(n.Object, fn)
		WalkExpression(n.Index, fn)
	case *Conditional:
		WalkExpression(n.Test, fn)
		WalkExpression(n.Consequent, fn)
		WalkExpression(n.Alternate, fn)
	case *ArrayLiteral:
		for _, el := range n.Elements {
			WalkExpression(el, fn)
		}
	case *ObjectLiteral:
		for _, p := range n.Properties {
			WalkExpression(p.Value, fn)
		}
	case *ArrowFunction:
		WalkExpression(n.Body, fn)
		WalkStatements(n.Block, fn)
	case *ElementLiteral:
		for _, a := range n.Attributes {
			WalkExpression(a.Value, fn)
		}

		for _, c := range n.Children {
			WalkExpression(c, fn)
		}
	case *TemplateLiteral:
		for _, sub := range n.Expressions {
			WalkExpression(sub, fn)
		}
	}
}

// WalkStatements visits every expression reachable from stmts, including
// function bodies and exported declarations.
func WalkStatements(stmts []Statement, fn func(Expression) bool) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ExpressionStmt:
			WalkExpression(n.Expr, fn)
		case *VariableDecl:
			WalkExpression(n.Init, fn)
		case *Export:
			if n.Declaration != nil {
				WalkStatements([]Statement{n.Declaration}, fn)
			}
		case *FunctionDecl:
			WalkStatements(n.Body, fn)
		}
	}
}

// RewriteExpression rebuilds e bottom-up, replacing each node with fn's
// result. fn receives nodes whose children were already rewritten.
func RewriteExpression(e Expression, fn func(Expression) Expression) Expression {
	if e == nil {
		return nil
	}

	switch n := e.(type) {
	case *Unary:
		n.Argument = RewriteExpression(n.Argument, fn)
	case *Binary:
		n.Left = RewriteExpression(n.Left, fn)
		n.Right = RewriteExpression(n.Right, fn)
	case *Call:
		n.Callee = RewriteExpression(n.Callee, fn)
		for i, a := range n.Args {
			n.Args[i] = RewriteExpression(a, fn)
		}
	case *Member:
		n.Object = RewriteExpression(n.Object, fn)
		n.Index = RewriteExpression(n.Index, fn)
	case *Conditional:
		n.Test = RewriteExpression(n.Test, fn)
		n.Consequent = RewriteExpression(n.Consequent, fn)
		n.Alternate = RewriteExpression(n.Alternate, fn)
	case *ArrayLiteral:
		for i, el := range n.Elements {
			n.Elements[i] = RewriteExpression(el, fn)
		}
	case *ObjectLiteral:
		for i, p := range n.Properties {
			n.Properties[i].Value = RewriteExpression(p.Value, fn)
		}
	case *ArrowFunction:
		n.Body = RewriteExpression(n.Body, fn)
		RewriteStatements(n.Block, fn)
	case *ElementLiteral:
		for i, a := range n.Attributes {
			n.Attributes[i].Value = RewriteExpression(a.Value, fn)
		}

		for i, c := range n.Children {
			n.Children[i] = RewriteExpression(c, fn)
		}
	case *TemplateLiteral:
		for i, sub := range n.Expressions {
			n.Expressions[i] = RewriteExpression(sub, fn)
		}
	}

	return fn(e)
}

// RewriteStatements applies RewriteExpression to every expression slot of stmts in place.
func RewriteStatements(stmts []Statement, fn func(Expression) Expression) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ExpressionStmt:
			n.Expr = RewriteExpression(n.Expr, fn)
		case *VariableDecl:
			n.Init = RewriteExpression(n.Init, fn)
		case *Export:
			if n.Declaration != nil {
				RewriteStatements([]Statement{n.Declaration}, fn)
			}
		case *FunctionDecl:
			RewriteStatements(n.Body, fn)
		}
	}
}
