package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicConstructorsPrintTheirSurfaceName(t *testing.T) {
	tests := []struct {
		name string
		con  ConName
		want string
	}{
		{"Bool", Bool, "Bool"},
		{"Int", IntCon, "Int"},
		{"String", StringCon, "String"},
		{"Unit", Unit, "Unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Con{Name: tt.con}.String())
		})
	}
}

func TestArrowRoundTripsThroughAsArrow(t *testing.T) {
	dom := Con{Name: IntCon}
	cod := Con{Name: Bool}

	fn := Arrow(dom, cod)
	gotDom, gotCod, ok := AsArrow(fn)
	require.True(t, ok, "Arrow-built type must be recognized by AsArrow")
	assert.Equal(t, dom.String(), gotDom.String())
	assert.Equal(t, cod.String(), gotCod.String())
}

func TestAsArrowRejectsNonArrow(t *testing.T) {
	_, _, ok := AsArrow(Con{Name: IntCon})
	assert.False(t, ok, "a bare Con must not be mistaken for an Arrow")
}

func TestFatArrowWrapsConstraintAndBody(t *testing.T) {
	constrained := FatArrowT(Con{Name: StringCon}, Con{Name: IntCon})
	require.NotNil(t, constrained)
	assert.Contains(t, constrained.String(), "Int")
}
