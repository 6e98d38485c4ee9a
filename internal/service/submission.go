package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"billed/internal/model"
	"billed/internal/store"
)

// RouteBills is the navigation target announced after a successful
// submission.
const RouteBills = "/api/bills"

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrDraftSubmitted  = errors.New("draft already submitted")
)

// allowed receipt extensions, lowercase
var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type DraftState int

const (
	DraftEmpty DraftState = iota
	DraftFileValidated
	DraftFilePendingUpload
	DraftFileAttached
	DraftSubmitted
)

// Draft is an in-progress bill being assembled by one user. It only becomes
// a persistent Bill on Submit.
type Draft struct {
	ID         string
	Email      string
	state      DraftState
	attachment *store.FileRef
}

func NewDraft(email string) *Draft {
	return &Draft{Email: email, state: DraftEmpty}
}

// ResumeDraft rebuilds a draft whose receipt was already uploaded in an
// earlier request.
func ResumeDraft(email, id string, ref *store.FileRef) *Draft {
	d := &Draft{ID: id, Email: email, state: DraftEmpty}
	if ref != nil && ref.FileURL != "" {
		d.attachment = ref
		d.state = DraftFileAttached
	}
	return d
}

func (d *Draft) State() DraftState { return d.state }

// Attachment returns the pending receipt reference, or nil.
func (d *Draft) Attachment() *store.FileRef { return d.attachment }

// BillForm carries the user-editable submission fields. Email, status and
// the attachment are never taken from the form.
type BillForm struct {
	Type       string `json:"type" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Amount     int    `json:"amount" validate:"min=0"`
	Pct        int    `json:"pct" validate:"min=0,max=100"`
	Commentary string `json:"commentary"`
}

type Submission struct {
	bills      store.BillStore
	files      store.FileStore
	validate   *validator.Validate
	onNavigate func(route string)
}

// NewSubmission builds the submission service. onNavigate is invoked with
// RouteBills after a successful submit; nil disables the signal.
func NewSubmission(bills store.BillStore, files store.FileStore, onNavigate func(route string)) *Submission {
	return &Submission{
		bills:      bills,
		files:      files,
		validate:   validator.New(),
		onNavigate: onNavigate,
	}
}

// AttachReceipt validates the selected file and uploads it, replacing any
// previously pending attachment. On a rejected extension or a failed upload
// the draft ends up with no attachment; the rest of the draft is untouched.
func (s *Submission) AttachReceipt(ctx context.Context, d *Draft, fileName string, r io.Reader) (*store.FileRef, error) {
	if d.state == DraftSubmitted {
		return nil, ErrDraftSubmitted
	}

	if !allowedExts[strings.ToLower(filepath.Ext(fileName))] {
		d.attachment = nil
		d.state = DraftEmpty
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, fileName)
	}
	d.state = DraftFileValidated

	d.state = DraftFilePendingUpload
	ref, err := s.files.UploadFile(ctx, fileName, r)
	if err != nil {
		d.attachment = nil
		d.state = DraftFileValidated
		return nil, fmt.Errorf("upload receipt: %w", err)
	}

	d.attachment = ref
	d.state = DraftFileAttached
	return ref, nil
}

// Submit assembles the final bill from the form and the draft's attachment
// and persists it. Status is always pending, whatever the caller sends. On
// failure the draft keeps its state so the user can resubmit as-is.
func (s *Submission) Submit(ctx context.Context, d *Draft, form BillForm) (*model.Bill, error) {
	if d.state == DraftSubmitted {
		return nil, ErrDraftSubmitted
	}

	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("validate bill: %w", err)
	}

	bill := model.Bill{
		Email:      d.Email,
		Type:       form.Type,
		Name:       form.Name,
		Date:       form.Date,
		Amount:     form.Amount,
		Pct:        form.Pct,
		Commentary: form.Commentary,
		Status:     model.StatusPending,
	}
	if d.attachment != nil {
		bill.FileURL = d.attachment.FileURL
		bill.FileName = d.attachment.FileName
		bill.FileKey = d.attachment.Key
	}

	var saved *model.Bill
	var err error
	if d.ID == "" {
		saved, err = s.bills.CreateBill(ctx, bill)
	} else {
		// the draft id comes from the client: only the owner's own pending
		// bill may be rewritten, anything else is not this user's draft
		existing, getErr := s.bills.GetBill(ctx, d.ID)
		if getErr != nil {
			return nil, fmt.Errorf("persist bill: %w", getErr)
		}
		if existing.Email != d.Email {
			return nil, fmt.Errorf("persist bill: %w", store.ErrBillNotFound)
		}
		if existing.Status != model.StatusPending {
			return nil, ErrBillNotActionable
		}
		saved, err = s.bills.UpdateBill(ctx, d.ID, bill)
	}
	if err != nil {
		return nil, fmt.Errorf("persist bill: %w", err)
	}

	d.ID = saved.ID
	d.state = DraftSubmitted

	if s.onNavigate != nil {
		s.onNavigate(RouteBills)
	}

	return saved, nil
}
