package override

import "errors"

var (
	ErrInvalidOverride          = errors.New("override descriptor is incomplete")
	ErrFailedOverrideValidation = errors.New("override descriptor conflicts with the plan's shape")
	ErrVariantNameCollision     = errors.New("plan variant name already exists in catalog")

	ErrFailedSimplePlanValidation = errors.New("simple plan descriptor failed validation")
)
