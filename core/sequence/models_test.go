package sequence

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classplan/core"
)

func newValidator() (*validator.Validate, func(err error) map[string]string) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, func(err error) map[string]string {
		var vErrs validator.ValidationErrors
		if errs, ok := err.(validator.ValidationErrors); ok {
			vErrs = errs
		}
		return core.TranslateValidationErrors(vErrs, translator)
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		assigned, sessionCount int
		want                   Status
	}{
		{0, 3, StatusPlanned},
		{1, 3, StatusInProgress},
		{2, 3, StatusInProgress},
		{3, 3, StatusCompleted},
		{4, 3, StatusCompleted},
		{0, 1, StatusPlanned},
		{1, 1, StatusCompleted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveStatus(tt.assigned, tt.sessionCount), "DeriveStatus(%d, %d)", tt.assigned, tt.sessionCount)
	}
}

func TestNewSequence_Validate(t *testing.T) {
	validate, translate := newValidator()

	tests := []struct {
		name    string
		ns      NewSequence
		wantErr map[string]string
	}{
		{
			name: "valid",
			ns:   NewSequence{ClassID: "c1", Name: " Poetry ", Color: "#ABCDEF", SessionCount: 3},
		},
		{
			name: "missing fields",
			ns:   NewSequence{},
			wantErr: map[string]string{
				"class_id":      "this field is required",
				"name":          "this field is required",
				"session_count": "this field is required",
			},
		},
		{
			name:    "blank objective",
			ns:      NewSequence{ClassID: "c1", Name: "x", SessionCount: 1, Objectives: []string{"read", "  "}},
			wantErr: map[string]string{"objectives[1]": "this field cannot be blank"},
		},
		{
			name:    "bad color",
			ns:      NewSequence{ClassID: "c1", Name: "x", SessionCount: 1, Color: "blue"},
			wantErr: map[string]string{"color": "color must be a hex color, eg. #1e88e5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate(validate)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, translate(err))
		})
	}

	t.Run("cleans input", func(t *testing.T) {
		ns := NewSequence{ClassID: " c1 ", Name: " Poetry ", Color: " #ABCDEF ", SessionCount: 1}
		require.NoError(t, ns.Validate(validate))
		assert.Equal(t, NewSequence{ClassID: "c1", Name: "Poetry", Color: "#abcdef", SessionCount: 1}, ns)
	})
}

func TestUpdateSequence(t *testing.T) {
	validate, translate := newValidator()
	name := "  Fables  "
	count := 4

	t.Run("empty update is rejected", func(t *testing.T) {
		us := UpdateSequence{}
		err := us.Validate(validate)
		require.Error(t, err)
		assert.Equal(t, map[string]string{"sequence": "at least one field must be provided"}, translate(err))
	})

	t.Run("apply only touches set fields", func(t *testing.T) {
		us := UpdateSequence{Name: &name, SessionCount: &count, Objectives: []string{"a", " b "}}
		require.NoError(t, us.Validate(validate))

		seq := Sequence{Name: "Poetry", Color: DefaultColor, SessionCount: 2, Theme: "verse", Resources: []string{"book"}}
		us.apply(&seq)
		assert.Equal(t, Sequence{
			Name:         "Fables",
			Color:        DefaultColor,
			SessionCount: 4,
			Theme:        "verse",
			Objectives:   []string{"a", "b"},
			Resources:    []string{"book"},
		}, seq)
	})

	t.Run("zero session count", func(t *testing.T) {
		zero := 0
		us := UpdateSequence{SessionCount: &zero}
		assert.Error(t, us.Validate(validate))
	})

	t.Run("blank name", func(t *testing.T) {
		blank := "   "
		us := UpdateSequence{Name: &blank}
		err := us.Validate(validate)
		require.Error(t, err)
		assert.Equal(t, map[string]string{"name": "this field cannot be blank"}, translate(err))
	})
}

func TestIDLists_Validate(t *testing.T) {
	validate, translate := newValidator()

	err := ReorderSequences{SequenceIDs: []string{"a", "b", "a"}}.Validate(validate)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"sequence_ids": "sequence_ids must not contain duplicates"}, translate(err))

	err = ReorderSequences{}.Validate(validate)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"sequence_ids": "this field is required"}, translate(err))

	assert.NoError(t, AssignSessions{}.Validate(validate), "an empty list clears the sequence")
	assert.NoError(t, AssignSessions{SessionIDs: []string{"s1", "s2"}}.Validate(validate))

	err = AssignSessions{SessionIDs: []string{"s1", "s1"}}.Validate(validate)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"session_ids": "session_ids must not contain duplicates"}, translate(err))
}
