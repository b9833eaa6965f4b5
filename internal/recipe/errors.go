package recipe

import "errors"

var (
	ErrDuplicateRecipe = errors.New("duplicate recipe")
	ErrInvalidRecipe   = errors.New("invalid recipe")
)
