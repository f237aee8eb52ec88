package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
)

// DocumentStore is the record-store surface the document registry needs.
// Implementations return ErrNotFound for absent records and ErrConflict
// when Save races a concurrent creation for the same appointment.
type DocumentStore interface {
	GetByID(ctx context.Context, id string) (*models.Document, error)
	GetByAppointment(ctx context.Context, appointmentID string) (*models.Document, error)
	// Save writes the full record, creating or overwriting by primary key.
	Save(ctx context.Context, doc *models.Document) error
	// UpdateNotes updates only the notes field and the last-updated
	// timestamp.
	UpdateNotes(ctx context.Context, id, notes string) error
	ListForUser(ctx context.Context, userID string, role models.Role) ([]models.Document, error)
}

// BlobStore stores raw document bytes by opaque reference.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (data []byte, contentType string, err error)
}

// UpsertDocumentInput carries one report upload.
type UpsertDocumentInput struct {
	AppointmentID string
	DoctorID      string
	ExamType      string
	ExamDate      string
	Notes         string
	Filename      string
	ContentType   string
	Data          []byte
}

// DocumentService is the document registry: it binds exactly one clinical
// document to an appointment and keeps repeated uploads idempotent.
type DocumentService struct {
	docs            DocumentStore
	appts           AppointmentStore
	users           UserStore
	blobs           BlobStore
	dispatcher      *Dispatcher
	strictOwnership bool
	log             zerolog.Logger
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(docs DocumentStore, appts AppointmentStore, users UserStore, blobs BlobStore, dispatcher *Dispatcher, strictOwnership bool, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		docs:            docs,
		appts:           appts,
		users:           users,
		blobs:           blobs,
		dispatcher:      dispatcher,
		strictOwnership: strictOwnership,
		log:             log,
	}
}

// Upsert stores the uploaded report for an appointment. The first upload
// creates the document; later uploads reuse its identity and blob key so
// the new bytes overwrite the same backing object. The blob is written
// before the metadata record: a blob failure aborts the whole operation.
// The patient is notified only when the document was created, never on an
// update. Returns the document and whether it was created.
func (s *DocumentService) Upsert(ctx context.Context, in UpsertDocumentInput) (*models.Document, bool, error) {
	if in.AppointmentID == "" {
		return nil, false, fmt.Errorf("%w: appointment id is required", ErrValidation)
	}
	if len(in.Data) == 0 {
		return nil, false, fmt.Errorf("%w: file content is required", ErrValidation)
	}

	appt, err := s.appts.GetByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, false, err
	}
	if s.strictOwnership && appt.DoctorID != in.DoctorID {
		return nil, false, fmt.Errorf("%w: appointment is assigned to another doctor", ErrForbidden)
	}

	created := false
	doc := &models.Document{
		AppointmentID: in.AppointmentID,
		PatientID:     appt.PatientID,
		DoctorID:      in.DoctorID,
		ExamType:      in.ExamType,
		ExamDate:      in.ExamDate,
		Notes:         in.Notes,
	}

	existing, err := s.docs.GetByAppointment(ctx, in.AppointmentID)
	switch {
	case err == nil:
		// Update in place: keep identity and blob key so the upload
		// overwrites the same backing object.
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
		doc.BlobKey = existing.BlobKey
		doc.OriginalFilename = in.Filename
	case errors.Is(err, ErrNotFound):
		created = true
		doc.ID = uuid.New().String()
		doc.BlobKey = fmt.Sprintf("reports/%s/%s_%s", appt.PatientID, doc.ID, in.Filename)
		doc.OriginalFilename = in.Filename
	default:
		return nil, false, err
	}

	// Blob first. If this fails the metadata record is never touched, so a
	// stored document always points at existing bytes. The reverse failure
	// can orphan a blob; that risk is accepted.
	if err := s.blobs.Put(ctx, doc.BlobKey, in.Data, in.ContentType); err != nil {
		return nil, false, fmt.Errorf("store document blob: %w", err)
	}
	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, false, err
	}

	if created {
		patient, err := s.users.GetByID(ctx, appt.PatientID)
		if err != nil {
			s.log.Warn().Err(err).Str("patient_id", appt.PatientID).Msg("document notification skipped")
		} else {
			body := fmt.Sprintf("A new report (%s) is available for your appointment on %s.", in.ExamType, appt.Date)
			s.dispatcher.Dispatch("New report available", body, patient.Email)
		}
	}
	return doc, created, nil
}

// UpdateNotes edits the free-text notes of a document. Only the doctor who
// owns the document may edit; no notification is sent.
func (s *DocumentService) UpdateNotes(ctx context.Context, documentID, doctorID, notes string) error {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.DoctorID != doctorID {
		return fmt.Errorf("%w: document belongs to another doctor", ErrForbidden)
	}
	return s.docs.UpdateNotes(ctx, documentID, notes)
}

// ListMine returns the caller's documents filtered by role, each enriched
// with the owning doctor's display name when the profile can be resolved.
func (s *DocumentService) ListMine(ctx context.Context, userID string, role models.Role) ([]models.Document, error) {
	docs, err := s.docs.ListForUser(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		doctor, err := s.users.GetByID(ctx, docs[i].DoctorID)
		if err != nil {
			continue
		}
		docs[i].DoctorName = "Dr. " + doctor.LastName
	}
	return docs, nil
}

// Download returns the document's bytes plus the original filename and
// content type. A missing record is NotFound; a blob retrieval problem is
// surfaced as a generic failure.
func (s *DocumentService) Download(ctx context.Context, documentID string) ([]byte, string, string, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, "", "", err
	}
	data, contentType, err := s.blobs.Get(ctx, doc.BlobKey)
	if err != nil {
		return nil, "", "", fmt.Errorf("retrieve document blob: %w", err)
	}
	return data, doc.OriginalFilename, contentType, nil
}
