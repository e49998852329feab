package solver

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// kindLattice is a flat test lattice over string kinds: equal kinds
// converge, different kinds do not, and nothing cascades. It records every
// Meet call so tests can assert which pairs reached the lattice.
type kindLattice struct {
	met [][2]string
}

func (l *kindLattice) Meet(value string, use string) ([]Assertion, error) {
	l.met = append(l.met, [2]string{value, use})
	if value != use {
		return nil, errors.Errorf("%s is not a %s", value, use)
	}
	return nil, nil
}

func TestAssertFlowConverges(t *testing.T) {
	lat := &kindLattice{}
	s := New[string, string](lat)

	v := s.NewValue("Bool")
	u := s.NewUse("Bool")

	assert.NoError(t, s.AssertFlow(v, u))
	assert.Equal(t, [][2]string{{"Bool", "Bool"}}, lat.met)
	assert.True(t, s.Checked(v, u))
	assert.Equal(t, []Assertion{{Val: v, Use: u}}, s.History())
}

func TestAssertFlowFailsToConverge(t *testing.T) {
	lat := &kindLattice{}
	s := New[string, string](lat)

	v := s.NewValue("Bool")
	u := s.NewUse("Float")

	err := s.AssertFlow(v, u)
	assert.Error(t, err)
	var converge *ConvergeError
	assert.ErrorAs(t, err, &converge)
	assert.Equal(t, v, converge.Val)
	assert.Equal(t, u, converge.Use)
}

func TestSolverSurvivesFailedAssertion(t *testing.T) {
	lat := &kindLattice{}
	s := New[string, string](lat)

	v1 := s.NewValue("Bool")
	u1 := s.NewUse("Float")
	assert.Error(t, s.AssertFlow(v1, u1))

	// the failed flow stays recorded (no rollback) but unrelated assertions
	// on the same solver still behave correctly
	v2 := s.NewValue("Int")
	u2 := s.NewUse("Int")
	assert.NoError(t, s.AssertFlow(v2, u2))
	assert.True(t, s.Checked(v2, u2))
	assert.True(t, s.Graph().HasEdge(v1.ID(), u1.ID()))
}

func TestReassertedFlowMeetsOnlyOnce(t *testing.T) {
	lat := &kindLattice{}
	s := New[string, string](lat)

	v := s.NewValue("Bool")
	u := s.NewUse("Bool")

	assert.NoError(t, s.AssertFlow(v, u))
	assert.NoError(t, s.AssertFlow(v, u))
	assert.Len(t, lat.met, 1)
}

func TestPlaceholderAliasesOneNode(t *testing.T) {
	lat := &kindLattice{}
	s := New[string, string](lat)

	v1 := s.NewValue("Bool")
	pVal, pUse := s.NewPlaceholder()
	u1 := s.NewUse("Bool")

	assert.Equal(t, pVal.ID(), pUse.ID())

	assert.NoError(t, s.AssertFlow(v1, pUse))
	// nothing met yet: the placeholder side carries no obligation
	assert.Empty(t, lat.met)

	assert.NoError(t, s.AssertFlow(pVal, u1))
	// transitivity through the shared node implied v1 -> u1
	assert.True(t, s.Graph().HasEdge(v1.ID(), u1.ID()))
	assert.Equal(t, [][2]string{{"Bool", "Bool"}}, lat.met)

	// a later value flowing into the placeholder is checked against the
	// placeholder's outgoing flows too
	v2 := s.NewValue("Bool")
	assert.NoError(t, s.AssertFlow(v2, pUse))
	assert.True(t, s.Checked(v2, u1))
}

func TestNoSpuriousMeets(t *testing.T) {
	lat := &kindLattice{}
	s := New[string, string](lat)

	v1 := s.NewValue("Bool")
	v2 := s.NewValue("Bool")
	aVal, aUse := s.NewPlaceholder()
	bVal, bUse := s.NewPlaceholder()
	u1 := s.NewUse("Bool")

	// v1 -> a -> b, v2 -> a, b has no use yet
	assert.NoError(t, s.AssertFlow(v1, aUse))
	assert.NoError(t, s.AssertFlow(aVal, bUse))
	assert.NoError(t, s.AssertFlow(v2, aUse))
	// implied pairs so far involve a placeholder on at least one side
	assert.Empty(t, lat.met)

	assert.NoError(t, s.AssertFlow(bVal, u1))

	// now exactly the value -> use pairs meet, never value/value,
	// use/use, or placeholder pairs
	assert.ElementsMatch(t, [][2]string{
		{"Bool", "Bool"}, // v1 -> u1
		{"Bool", "Bool"}, // v2 -> u1
	}, lat.met)
	assert.True(t, s.Checked(v1, u1))
	assert.True(t, s.Checked(v2, u1))
}

// pairValue / pairUse build a one-level structural lattice: a pair payload
// holds handles to its element nodes, and meeting two pairs cascades into a
// flow between the elements.
type pairValue struct {
	kind string
	elem *Value
}

type pairUse struct {
	kind string
	elem *Use
}

type structLattice struct {
	meets int
}

func (l *structLattice) Meet(value pairValue, use pairUse) ([]Assertion, error) {
	l.meets++
	if value.kind != use.kind {
		return nil, errors.Errorf("%s is not a %s", value.kind, use.kind)
	}
	if value.elem != nil && use.elem != nil {
		return []Assertion{{Val: *value.elem, Use: *use.elem}}, nil
	}
	return nil, nil
}

func TestMeetCascadesIntoElementFlows(t *testing.T) {
	lat := &structLattice{}
	s := New[pairValue, pairUse](lat)

	elemV := s.NewValue(pairValue{kind: "Bool"})
	elemU := s.NewUse(pairUse{kind: "Bool"})
	v := s.NewValue(pairValue{kind: "Pair", elem: &elemV})
	u := s.NewUse(pairUse{kind: "Pair", elem: &elemU})

	assert.NoError(t, s.AssertFlow(v, u))
	// the pair meet plus the element meet it implied
	assert.Equal(t, 2, lat.meets)
	assert.True(t, s.Checked(elemV, elemU))
}

func TestMeetCascadeFailurePropagates(t *testing.T) {
	lat := &structLattice{}
	s := New[pairValue, pairUse](lat)

	elemV := s.NewValue(pairValue{kind: "Bool"})
	elemU := s.NewUse(pairUse{kind: "Float"})
	v := s.NewValue(pairValue{kind: "Pair", elem: &elemV})
	u := s.NewUse(pairUse{kind: "Pair", elem: &elemU})

	err := s.AssertFlow(v, u)
	var converge *ConvergeError
	assert.ErrorAs(t, err, &converge)
	assert.Equal(t, elemV, converge.Val)
	assert.Equal(t, elemU, converge.Use)
}

// generativeLattice allocates fresh nodes on every meet, so propagation
// never terminates without a budget.
type generativeLattice struct {
	s *Solver[string, string]
}

func (l *generativeLattice) Meet(value string, use string) ([]Assertion, error) {
	v := l.s.NewValue(value)
	u := l.s.NewUse(use)
	return []Assertion{{Val: v, Use: u}}, nil
}

func TestNodeBudgetStopsUnboundedPropagation(t *testing.T) {
	lat := &generativeLattice{}
	s := New[string, string](lat, WithNodeBudget(50))
	lat.s = s

	v := s.NewValue("Bool")
	u := s.NewUse("Bool")

	err := s.AssertFlow(v, u)
	var budget *BudgetError
	assert.ErrorAs(t, err, &budget)
	assert.Equal(t, 50, budget.Budget)
}
