package validate_test

import (
	"testing"

	"github.com/fashionhub/storefront/pkg/validate"

	"github.com/stretchr/testify/assert"
)

type productInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,in=t-shirts,hoodies,jackets,pants,accessories"`
	ImageURL    string  `json:"imageUrl" validate:"nullable,url"`
}

func TestStructValid(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:        "Classic Crew Tee",
		Description: "Soft cotton tee",
		Price:       19.99,
		Category:    "t-shirts",
	})
	assert.False(t, validate.HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	errs := validate.Struct(productInput{Price: 5, Category: "hoodies"})
	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Equal(t, "The description field is required.", errs["description"])
}

func TestStructInList(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:        "Thing",
		Description: "A thing",
		Category:    "furniture",
	})
	assert.Contains(t, errs["category"], "must be one of")
}

func TestStructNumericBounds(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:        "Thing",
		Description: "A thing",
		Price:       -1,
		Category:    "pants",
	})
	assert.Equal(t, "The price field must be at least 0.", errs["price"])
}

func TestStructNullableSkipsWhenEmpty(t *testing.T) {
	in := productInput{Name: "Thing", Description: "A thing", Category: "pants"}
	assert.False(t, validate.HasErrors(validate.Struct(in)))

	in.ImageURL = "not a url"
	errs := validate.Struct(in)
	assert.Equal(t, "The imageUrl field must be a valid URL.", errs["imageUrl"])
}

func TestStructEmail(t *testing.T) {
	type login struct {
		Email string `json:"email" validate:"required,email"`
	}
	assert.False(t, validate.HasErrors(validate.Struct(login{Email: "jane@example.com"})))
	errs := validate.Struct(login{Email: "jane@"})
	assert.Equal(t, "The email field must be a valid email address.", errs["email"])
}

func TestStructStringLength(t *testing.T) {
	type reg struct {
		Password string `json:"password" validate:"required,min=6"`
	}
	errs := validate.Struct(reg{Password: "12345"})
	assert.Equal(t, "The password field must be at least 6 characters.", errs["password"])
	assert.False(t, validate.HasErrors(validate.Struct(reg{Password: "123456"})))
}

func TestStructFirstFailingRuleWins(t *testing.T) {
	type in struct {
		Qty int `json:"quantity" validate:"required,gte=1"`
	}
	errs := validate.Struct(in{Qty: 0})
	assert.Equal(t, "The quantity field is required.", errs["quantity"])
}

func TestStructPointerAndNonStruct(t *testing.T) {
	in := &productInput{Name: "X", Description: "Y", Category: "jackets"}
	assert.False(t, validate.HasErrors(validate.Struct(in)))
	assert.Empty(t, validate.Struct("not a struct"))
}
