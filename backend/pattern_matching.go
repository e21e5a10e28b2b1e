package backend

import (
	"fmt"
	"slices"
	"sort"

	xset "github.com/xtgo/set"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/ir"
	"github.com/cottand/ilec/util/hset"
)

// caseExpression lowers a case over a variant into a match on its tag.
//
// An alternative matches the tags of every member of its type. When its type is itself a union,
// the name it binds is a variant again, so the payload is wrapped back with its tag.
// An alternative of type Any matches everything left, and any alternative after it is dropped,
// as is an alternative for tags already matched before.
func (c *Compiler) caseExpression(e *ast.Case, s scope) (ir.Expr, error) {
	variant, err := c.isVariant(e.Type)
	if err != nil {
		return nil, err
	}
	if !variant {
		return nil, ilerr.New(ilerr.NewCaseArgumentTypeInvalid{Positioner: e.Range, Type: e.Type})
	}
	argument, err := c.expression(e.Argument, s)
	if err != nil {
		return nil, err
	}

	out := &ir.VariantCase{Argument: argument}
	matched := hset.Empty[types.Type](c.tags.Hasher())
	var covered []types.Type
	for _, alt := range e.Alternatives {
		body, err := c.expression(alt.Expression, s.bind(alt.Name, alt.Type))
		if err != nil {
			return nil, err
		}
		isAny, err := c.services.Resolver.IsAny(alt.Type)
		if err != nil {
			return nil, err
		}
		if isAny {
			out.Default = &ir.DefaultAlternative{Name: alt.Name, Expression: body}
			break
		}
		isUnion, err := c.isVariant(alt.Type)
		if err != nil {
			return nil, err
		}
		members, err := c.services.Members(alt.Type)
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			if matched.Contains(member) {
				continue
			}
			matched.Add(member)
			covered = append(covered, member)

			tag, err := c.tags.Tag(member)
			if err != nil {
				return nil, err
			}
			payloadType, err := c.compileType(member)
			if err != nil {
				return nil, err
			}
			expression := body
			if isUnion {
				expression = &ir.Let{
					Name:  alt.Name,
					Type:  &ir.VariantType{},
					Bound: &ir.Variant{Tag: tag, Type: payloadType, Payload: &ir.Variable{Name: alt.Name}},
					Body:  body,
				}
			}
			out.Alternatives = append(out.Alternatives, ir.VariantAlternative{Tag: tag, Type: payloadType, Name: alt.Name, Expression: expression})
		}
	}

	if out.Default == nil {
		if err := c.checkCoverage(e, covered); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// checkCoverage makes sure that a case without a default alternative matches
// every member of the union it is over.
// A case over Any without a default cannot be checked, and fails at runtime when nothing matches.
func (c *Compiler) checkCoverage(e *ast.Case, covered []types.Type) error {
	isAny, err := c.services.Resolver.IsAny(e.Type)
	if err != nil || isAny {
		return err
	}
	members, err := c.services.Members(e.Type)
	if err != nil {
		return err
	}
	required, err := c.tags.Tags(members)
	if err != nil {
		return err
	}
	present, err := c.tags.Tags(covered)
	if err != nil {
		return err
	}

	data := append(tagSlice(slices.Clone(required)), present...)
	missingTags := data[:xset.Diff(data, len(required))]
	if len(missingTags) == 0 {
		return nil
	}
	sort.Sort(missingTags)

	var missing []fmt.Stringer
	for _, member := range members {
		tag, err := c.tags.Tag(member)
		if err != nil {
			return err
		}
		if _, found := slices.BinarySearch(missingTags, tag); found {
			missing = append(missing, member)
		}
	}
	logger.Debug("case is not exhaustive", "case", ast.Expression(e), "missing", len(missing))
	return ilerr.New(ilerr.NewCaseNotExhaustive{Positioner: e.Range, Missing: missing})
}
