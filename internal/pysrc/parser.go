package pysrc

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"modelcheck/internal/core/errors"
	"modelcheck/internal/shared/observability"
)

// Parser turns Python sources into File descriptions using the
// tree-sitter Python grammar.
type Parser struct {
	language *sitter.Language
}

func NewParser() *Parser {
	return &Parser{language: sitter.NewLanguage(tree_sitter_python.Language())}
}

// ParseFile parses one source file. module is the dotted module name
// the file's classes are qualified with.
func (p *Parser) ParseFile(path, module string, content []byte) (*File, error) {
	start := time.Now()
	defer func() {
		observability.ParsingDuration.Observe(time.Since(start).Seconds())
	}()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeInternal, "parse failed"), errors.CtxPath, path)
	}
	defer tree.Close()

	file := &File{
		Path:     path,
		Module:   module,
		ParsedAt: time.Now(),
	}

	e := &extractor{source: content, file: file}
	e.walkStatements(tree.RootNode())
	return file, nil
}

type extractor struct {
	source []byte
	file   *File
}

func (e *extractor) walkStatements(node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "class_definition":
			e.extractClass(child)
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && def.Kind() == "class_definition" {
				e.extractClass(def)
			}
		}
	}
}

func (e *extractor) extractClass(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	cls := &Class{
		Name: e.text(nameNode),
		Line: int(node.StartPosition().Row) + 1,
	}
	cls.Fullname = cls.Name
	if e.file.Module != "" {
		cls.Fullname = e.file.Module + "." + cls.Name
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := uint(0); i < supers.ChildCount(); i++ {
			arg := supers.Child(i)
			switch arg.Kind() {
			case "identifier", "attribute":
				cls.Bases = append(cls.Bases, e.text(arg))
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		e.extractClassBody(cls, body)
	}

	e.file.Classes = append(e.file.Classes, cls)
}

func (e *extractor) extractClassBody(cls *Class, body *sitter.Node) {
	for i := uint(0); i < body.ChildCount(); i++ {
		stmt := body.Child(i)

		switch stmt.Kind() {
		case "class_definition":
			if name := stmt.ChildByFieldName("name"); name != nil && e.text(name) == "Meta" {
				cls.HasMeta = true
				cls.MetaAbstract = e.metaDeclaresAbstract(stmt.ChildByFieldName("body"))
			}
		case "expression_statement":
			for j := uint(0); j < stmt.ChildCount(); j++ {
				if assign := stmt.Child(j); assign.Kind() == "assignment" {
					e.extractAssignment(cls, assign)
				}
			}
		}
	}
}

func (e *extractor) extractAssignment(cls *Class, node *sitter.Node) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return
	}

	assignment := &Assignment{
		Target: e.text(left),
		Line:   int(node.StartPosition().Row) + 1,
	}

	right := node.ChildByFieldName("right")
	if right != nil && right.Kind() == "call" {
		assignment.IsCall = true
		if fn := right.ChildByFieldName("function"); fn != nil {
			assignment.Constructor = e.text(fn)
		}
		e.extractArguments(assignment, right.ChildByFieldName("arguments"))
	}

	cls.Assignments = append(cls.Assignments, assignment)
}

func (e *extractor) extractArguments(assignment *Assignment, args *sitter.Node) {
	if args == nil {
		return
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		switch arg.Kind() {
		case "identifier", "attribute":
			assignment.Positional = append(assignment.Positional, e.text(arg))
		case "string":
			assignment.Positional = append(assignment.Positional, unquote(e.text(arg)))
		case "keyword_argument":
			name := arg.ChildByFieldName("name")
			value := arg.ChildByFieldName("value")
			if name == nil || value == nil {
				continue
			}
			if assignment.Keywords == nil {
				assignment.Keywords = make(map[string]string)
			}
			assignment.Keywords[e.text(name)] = e.text(value)
		}
	}
}

// metaDeclaresAbstract looks for `abstract = True` in a Meta body.
func (e *extractor) metaDeclaresAbstract(body *sitter.Node) bool {
	if body == nil {
		return false
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		stmt := body.Child(i)
		if stmt.Kind() != "expression_statement" {
			continue
		}
		for j := uint(0); j < stmt.ChildCount(); j++ {
			assign := stmt.Child(j)
			if assign.Kind() != "assignment" {
				continue
			}
			left := assign.ChildByFieldName("left")
			right := assign.ChildByFieldName("right")
			if left != nil && right != nil &&
				e.text(left) == "abstract" && right.Kind() == "true" {
				return true
			}
		}
	}
	return false
}

func (e *extractor) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(e.source[node.StartByte():node.EndByte()])
}

func unquote(value string) string {
	value = strings.TrimSpace(value)
	return strings.Trim(value, "\"'")
}
