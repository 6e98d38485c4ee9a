package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billed/internal/model"
	"billed/internal/store"
)

func validForm() BillForm {
	return BillForm{
		Type:   "Transports",
		Name:   "Vol Paris Londres",
		Date:   "2023-12-17",
		Amount: 348,
		Pct:    20,
	}
}

func TestAttachReceiptAcceptsImages(t *testing.T) {
	for _, name := range []string{"photo.png", "photo.jpg", "photo.jpeg", "PHOTO.PNG", "scan.JPeG"} {
		files := &stubFiles{}
		sub := NewSubmission(&stubBills{}, files, nil)
		draft := NewDraft("e@e")

		ref, err := sub.AttachReceipt(context.Background(), draft, name, strings.NewReader("img"))
		require.NoError(t, err, name)
		require.NotNil(t, ref)
		assert.Equal(t, 1, files.uploads, "exactly one upload per valid selection")
		assert.Equal(t, DraftFileAttached, draft.State())
		assert.Equal(t, ref, draft.Attachment())
	}
}

func TestAttachReceiptRejectsOtherTypes(t *testing.T) {
	for _, name := range []string{"report.pdf", "notes.txt", "archive.png.zip", "noext"} {
		files := &stubFiles{}
		sub := NewSubmission(&stubBills{}, files, nil)
		draft := NewDraft("e@e")

		_, err := sub.AttachReceipt(context.Background(), draft, name, strings.NewReader("x"))
		require.ErrorIs(t, err, ErrUnsupportedFile, name)
		assert.Equal(t, 0, files.uploads, "no upload call on rejection")
		assert.Nil(t, draft.Attachment())
	}
}

func TestAttachReceiptReplacesPendingAttachment(t *testing.T) {
	files := &stubFiles{}
	sub := NewSubmission(&stubBills{}, files, nil)
	draft := NewDraft("e@e")

	_, err := sub.AttachReceipt(context.Background(), draft, "first.png", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := sub.AttachReceipt(context.Background(), draft, "second.jpg", strings.NewReader("b"))
	require.NoError(t, err)

	assert.Equal(t, 2, files.uploads)
	assert.Equal(t, second, draft.Attachment(), "re-selecting replaces, never appends")
}

func TestAttachReceiptUploadFailureRollsBack(t *testing.T) {
	files := &stubFiles{
		uploadFn: func(ctx context.Context, name string, r io.Reader) (*store.FileRef, error) {
			return nil, errors.New("storage unavailable")
		},
	}
	sub := NewSubmission(&stubBills{}, files, nil)
	draft := NewDraft("e@e")

	_, err := sub.AttachReceipt(context.Background(), draft, "photo.png", strings.NewReader("img"))
	require.Error(t, err)
	assert.Nil(t, draft.Attachment(), "failed upload clears the attachment")
	assert.Equal(t, DraftFileValidated, draft.State())
}

func TestSubmitForcesPendingAndKeepsAttachment(t *testing.T) {
	var persisted model.Bill
	bills := &stubBills{
		createFn: func(ctx context.Context, bill model.Bill) (*model.Bill, error) {
			persisted = bill
			bill.ID = "b1"
			return &bill, nil
		},
	}
	var navigatedTo string
	sub := NewSubmission(bills, &stubFiles{}, func(route string) { navigatedTo = route })

	draft := ResumeDraft("e@e", "", &store.FileRef{
		FileURL:  "https://x/test.jpg",
		FileName: "test.jpg",
		Key:      "1234",
	})

	bill, err := sub.Submit(context.Background(), draft, validForm())
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, persisted.Status)
	assert.Equal(t, "e@e", persisted.Email)
	assert.Equal(t, "https://x/test.jpg", persisted.FileURL)
	assert.Equal(t, "1234", persisted.FileKey)
	assert.Equal(t, "b1", bill.ID)
	assert.Equal(t, RouteBills, navigatedTo, "success signals navigation to the list")
}

func TestSubmitValidatesForm(t *testing.T) {
	created := false
	bills := &stubBills{
		createFn: func(ctx context.Context, bill model.Bill) (*model.Bill, error) {
			created = true
			return &bill, nil
		},
	}
	sub := NewSubmission(bills, &stubFiles{}, nil)

	for _, form := range []BillForm{
		{Type: "Transports", Date: "2023-12-17", Amount: 10},            // missing name
		{Type: "Transports", Name: "x", Date: "17/12/2023", Amount: 10}, // bad date
		{Type: "Transports", Name: "x", Date: "2023-12-17", Amount: -5}, // negative amount
	} {
		_, err := sub.Submit(context.Background(), NewDraft("e@e"), form)
		require.Error(t, err)
	}
	assert.False(t, created, "invalid form never reaches the store")
}

func TestSubmitStoreFailurePreservesDraft(t *testing.T) {
	fail := true
	bills := &stubBills{
		createFn: func(ctx context.Context, bill model.Bill) (*model.Bill, error) {
			if fail {
				return nil, errors.New("504 gateway timeout")
			}
			bill.ID = "b1"
			return &bill, nil
		},
	}
	sub := NewSubmission(bills, &stubFiles{}, nil)

	draft := ResumeDraft("e@e", "", &store.FileRef{FileURL: "https://x/a.png", Key: "k"})

	_, err := sub.Submit(context.Background(), draft, validForm())
	require.Error(t, err)
	assert.NotEqual(t, DraftSubmitted, draft.State())
	assert.NotNil(t, draft.Attachment(), "form state survives a failed submit")

	// resubmission without re-entering anything
	fail = false
	bill, err := sub.Submit(context.Background(), draft, validForm())
	require.NoError(t, err)
	assert.Equal(t, "b1", bill.ID)
}

func TestSubmittedDraftIsTerminal(t *testing.T) {
	sub := NewSubmission(&stubBills{}, &stubFiles{}, nil)
	draft := NewDraft("e@e")

	_, err := sub.Submit(context.Background(), draft, validForm())
	require.NoError(t, err)
	assert.Equal(t, DraftSubmitted, draft.State())

	_, err = sub.Submit(context.Background(), draft, validForm())
	require.ErrorIs(t, err, ErrDraftSubmitted)

	_, err = sub.AttachReceipt(context.Background(), draft, "late.png", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrDraftSubmitted)
}

func TestSubmitUpdatesExistingDraft(t *testing.T) {
	updatedID := ""
	bills := &stubBills{
		getFn: func(ctx context.Context, id string) (*model.Bill, error) {
			return &model.Bill{ID: id, Email: "e@e", Status: model.StatusPending}, nil
		},
		updateFn: func(ctx context.Context, id string, bill model.Bill) (*model.Bill, error) {
			updatedID = id
			bill.ID = id
			return &bill, nil
		},
	}
	sub := NewSubmission(bills, &stubFiles{}, nil)

	draft := ResumeDraft("e@e", "existing-id", nil)
	_, err := sub.Submit(context.Background(), draft, validForm())
	require.NoError(t, err)
	assert.Equal(t, "existing-id", updatedID)
}

func TestSubmitCannotTouchForeignBill(t *testing.T) {
	mem := store.NewMemStore()
	victim, err := mem.CreateBill(context.Background(), model.Bill{
		Email: "victim@billed.test", Type: "Transports", Name: "Taxi",
		Date: "2023-06-01", Amount: 42, Status: model.StatusPending,
	})
	require.NoError(t, err)

	sub := NewSubmission(mem, &stubFiles{}, nil)
	draft := ResumeDraft("attacker@billed.test", victim.ID, nil)

	_, err = sub.Submit(context.Background(), draft, validForm())
	require.ErrorIs(t, err, store.ErrBillNotFound)

	stored, err := mem.GetBill(context.Background(), victim.ID)
	require.NoError(t, err)
	assert.Equal(t, "Taxi", stored.Name, "foreign bill must be untouched")
	assert.Equal(t, "victim@billed.test", stored.Email)
}

func TestSubmitCannotRependDecidedBill(t *testing.T) {
	mem := store.NewMemStore()
	decided, err := mem.CreateBill(context.Background(), model.Bill{
		Email: "e@e", Type: "Transports", Name: "Vol",
		Date: "2023-06-01", Amount: 348, Status: model.StatusAccepted,
	})
	require.NoError(t, err)

	sub := NewSubmission(mem, &stubFiles{}, nil)
	draft := ResumeDraft("e@e", decided.ID, nil)

	_, err = sub.Submit(context.Background(), draft, validForm())
	require.ErrorIs(t, err, ErrBillNotActionable)

	stored, err := mem.GetBill(context.Background(), decided.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, stored.Status, "a decided bill never goes back to pending")
}
