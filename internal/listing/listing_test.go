package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Title:       "Loft",
		Description: "Nice",
		Price:       100,
		Guests:      2,
		Beds:        1,
		Baths:       1,
	}
}

func TestValidate_AcceptsValidInput(t *testing.T) {
	assert.NoError(t, Validate(validInput()))

	in := validInput()
	in.Image = ""
	assert.NoError(t, Validate(in), "image is optional")
}

func TestValidate_RejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"empty title", func(in *Input) { in.Title = "" }, "title"},
		{"blank title", func(in *Input) { in.Title = "   \t" }, "title"},
		{"blank description", func(in *Input) { in.Description = "\n " }, "description"},
		{"zero price", func(in *Input) { in.Price = 0 }, "price"},
		{"negative guests", func(in *Input) { in.Guests = -1 }, "guests"},
		{"zero beds", func(in *Input) { in.Beds = 0 }, "beds"},
		{"zero baths", func(in *Input) { in.Baths = 0 }, "baths"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := Validate(in)
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
			assert.Len(t, verrs, 1)
		})
	}
}

func TestValidate_ReportsEveryBrokenField(t *testing.T) {
	err := Validate(Input{})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 6)
	assert.Equal(t, "price must be greater than or equal to 1", verrs["price"])
	assert.Equal(t, "title is a required field", verrs["title"])
}

func TestInput_ListingTrimsText(t *testing.T) {
	in := validInput()
	in.Title = "  Loft  "
	in.Description = "\tNice\n"
	in.Image = "https://example.test/a.png"

	l := in.Listing()
	assert.Equal(t, "Loft", l.Title)
	assert.Equal(t, "Nice", l.Description)
	assert.Equal(t, in.Image, l.Image)
	assert.Empty(t, l.ID)

	assert.Equal(t, in.Normalized(), FromListing(l))
}
