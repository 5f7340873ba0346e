package sequence

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classplan/core"
)

var (
	hexColorTag  = "hexcolor"
	hexColorText = "{0} must be a hex color, eg. #1e88e5"

	noChangesTag  = "nochanges"
	noChangesText = "at least one field must be provided"
)

// InitValidators registers the sequence validations & translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterCustomTranslation(validate, translator, hexColorTag, hexColorText, true)

	validate.RegisterStructValidation(updateSequenceStructValidation, UpdateSequence{})
	core.RegisterCustomTranslation(validate, translator, noChangesTag, noChangesText)
}

// updateSequenceStructValidation rejects updates that would not change anything.
func updateSequenceStructValidation(sl validator.StructLevel) {
	if us, ok := sl.Current().Interface().(UpdateSequence); ok && us.IsEmpty() {
		sl.ReportError(us, "sequence", "UpdateSequence", noChangesTag, "")
	}
}
