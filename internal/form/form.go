// Package form drives the listing submission workflow: pick an image, upload
// it, fill in the fields and submit the listing.
//
// Image upload and submission are independent state tracks that share one
// disabled flag. While either is in flight every further gesture is a no-op
// that returns ErrBusy.
package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"

	"rental-listings/internal/client"
	"rental-listings/internal/listing"
	"rental-listings/internal/models"
)

var (
	// ErrBusy is returned when a gesture arrives while the form is disabled
	ErrBusy = errors.New("form is busy")
	// ErrUnknownField is returned by SetField for names outside Fields
	ErrUnknownField = errors.New("unknown field")
)

const (
	msgUploading       = "Uploading ..."
	msgUploaded        = "Successfully uploaded"
	msgUploadFailed    = "Unable to upload"
	msgPickerFailed    = "Unable to update image"
	msgSubmitting      = "Submitting..."
	msgSubmitted       = "Successfully submitted"
	msgSubmitFailed    = "Unable to submit"
	defaultButtonText  = "Submit"
	numericFieldReason = "%s must be a whole number"
)

// SubmitState is the submission track
type SubmitState int

const (
	SubmitIdle SubmitState = iota
	Submitting
	SubmitDone
)

func (s SubmitState) String() string {
	switch s {
	case SubmitIdle:
		return "idle"
	case Submitting:
		return "submitting"
	case SubmitDone:
		return "done"
	default:
		return "unknown"
	}
}

// API is the server side of the workflow
type API interface {
	UploadImage(ctx context.Context, payload string) (string, error)
	CreateListing(ctx context.Context, in listing.Input) (*models.Listing, error)
}

// Options configures a Form
type Options struct {
	// InitialValues pre-populates the form from an existing record
	InitialValues *listing.Input
	// RedirectPath is passed to Navigate once after a successful submit
	RedirectPath string
	ButtonText   string
	Notifier     Notifier
	Navigate     func(path string)
	SizeLimit    int64
	Accept       []string
}

// Form is the listing submission workflow. It is safe for concurrent use.
type Form struct {
	api        API
	encoder    *client.Encoder
	notify     Notifier
	navigate   func(string)
	redirect   string
	buttonText string

	mu        sync.Mutex
	values    listing.Input
	raw       map[string]string
	parseErrs map[string]string
	errs      listing.ValidationErrors
	image     Image
	upload    UploadState
	uploadMsg string
	submit    SubmitState
	disabled  bool
	created   *models.Listing
}

// New returns a blank form, or one pre-populated from opts.InitialValues
func New(api API, opts Options) *Form {
	enc := client.NewEncoder()
	if opts.SizeLimit > 0 {
		enc.SizeLimit = opts.SizeLimit
	}
	if opts.Accept != nil {
		enc.Accept = opts.Accept
	}

	f := &Form{
		api:        api,
		encoder:    enc,
		notify:     opts.Notifier,
		navigate:   opts.Navigate,
		redirect:   opts.RedirectPath,
		buttonText: opts.ButtonText,
		parseErrs:  map[string]string{},
	}
	if f.notify == nil {
		f.notify = NopNotifier{}
	}
	if f.buttonText == "" {
		f.buttonText = defaultButtonText
	}

	if opts.InitialValues != nil {
		f.values = *opts.InitialValues
		f.image = Image{Src: f.values.Image, Alt: f.values.Title}
	} else {
		f.values = listing.Input{Price: 0, Guests: 1, Beds: 1, Baths: 1}
	}

	f.raw = map[string]string{
		"price":  strconv.Itoa(f.values.Price),
		"guests": strconv.Itoa(f.values.Guests),
		"beds":   strconv.Itoa(f.values.Beds),
		"baths":  strconv.Itoa(f.values.Baths),
	}
	f.validateLocked()
	return f
}

// SetField updates one field from its raw text and revalidates the form
func (f *Form) SetField(name, raw string) error {
	field, ok := FieldByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch field.Kind {
	case Line, Multiline:
		if name == "title" {
			f.values.Title = raw
		} else {
			f.values.Description = raw
		}
	case Numeric:
		f.raw[name] = raw
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			f.parseErrs[name] = fmt.Sprintf(numericFieldReason, name)
			n = 0
		} else {
			delete(f.parseErrs, name)
		}
		f.setNumber(name, n)
	}

	f.validateLocked()
	return nil
}

func (f *Form) setNumber(name string, n int) {
	switch name {
	case "price":
		f.values.Price = n
	case "guests":
		f.values.Guests = n
	case "beds":
		f.values.Beds = n
	case "baths":
		f.values.Baths = n
	}
}

func (f *Form) validateLocked() {
	errs := listing.ValidationErrors{}
	var verrs listing.ValidationErrors
	if errors.As(listing.Validate(f.values), &verrs) {
		maps.Copy(errs, verrs)
	}
	maps.Copy(errs, f.parseErrs)
	f.errs = errs
}

// Values returns the current field values
func (f *Form) Values() listing.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Raw returns the text last entered for a field
func (f *Form) Raw(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case "title":
		return f.values.Title
	case "description":
		return f.values.Description
	default:
		return f.raw[name]
	}
}

// Errors returns the current validation problems keyed by field name
func (f *Form) Errors() listing.ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errs)
}

func (f *Form) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs) == 0
}

// Disabled reports whether an upload or a submission is in flight, or the
// listing has already been submitted
func (f *Form) Disabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disabled
}

// CanSubmit reports whether the submit control is enabled
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.disabled && len(f.errs) == 0
}

func (f *Form) ButtonText() string { return f.buttonText }

// Image returns the picker preview and its state. msg is set in the error state.
func (f *Form) Image() (img Image, state UploadState, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.image, f.upload, f.uploadMsg
}

func (f *Form) SubmitState() SubmitState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submit
}

// Created returns the stored listing after a successful submit
func (f *Form) Created() *models.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// PickImage encodes file, previews it and uploads it. On success the returned
// URL becomes the listing image; on failure the image is cleared but the
// preview stays. A file that is too large or of the wrong type never enters
// the uploading state.
func (f *Form) PickImage(ctx context.Context, file client.File) error {
	f.mu.Lock()
	if f.disabled {
		f.mu.Unlock()
		return ErrBusy
	}
	f.disabled = true
	f.mu.Unlock()

	if err := f.encoder.Check(file); err != nil {
		f.rejectFile(err)
		return err
	}

	f.mu.Lock()
	f.upload = Uploading
	f.uploadMsg = ""
	f.mu.Unlock()

	payload, err := f.encoder.Encode(file)
	if err != nil {
		f.rejectFile(err)
		return err
	}

	f.mu.Lock()
	f.image = Image{Src: payload, Alt: altText(file.Name())}
	f.mu.Unlock()

	id := f.notify.Loading(msgUploading)
	url, err := f.api.UploadImage(ctx, payload)

	f.mu.Lock()
	f.disabled = false
	if err != nil {
		f.values.Image = ""
		f.upload = UploadFailed
		f.uploadMsg = msgPickerFailed
		f.mu.Unlock()
		f.notify.Error(id, msgUploadFailed)
		return fmt.Errorf("upload image: %w", err)
	}
	f.values.Image = url
	f.upload = UploadIdle
	f.mu.Unlock()

	f.notify.Success(id, msgUploaded)
	return nil
}

func (f *Form) rejectFile(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upload = UploadFailed
	f.uploadMsg = f.encoder.Message(err)
	f.disabled = false
}

// Submit sends the listing. Invalid values return listing.ValidationErrors
// without a request. After a successful submit the form stays disabled.
func (f *Form) Submit(ctx context.Context) (*models.Listing, error) {
	f.mu.Lock()
	if f.disabled {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if len(f.errs) > 0 {
		errs := maps.Clone(f.errs)
		f.mu.Unlock()
		return nil, errs
	}
	f.disabled = true
	f.submit = Submitting
	in := f.values
	f.mu.Unlock()

	id := f.notify.Loading(msgSubmitting)
	created, err := f.api.CreateListing(ctx, in)
	if err != nil {
		f.mu.Lock()
		f.submit = SubmitIdle
		f.disabled = false
		f.mu.Unlock()
		f.notify.Error(id, msgSubmitFailed)
		return nil, fmt.Errorf("submit listing: %w", err)
	}

	f.mu.Lock()
	f.submit = SubmitDone
	f.created = created
	f.mu.Unlock()

	f.notify.Success(id, msgSubmitted)
	if f.redirect != "" && f.navigate != nil {
		f.navigate(f.redirect)
	}
	return created, nil
}
