package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
)

// In-memory store implementations used across the service tests.

type memAppointmentStore struct {
	mu   sync.Mutex
	byID map[string]*models.Appointment
	fail error
}

func newMemAppointmentStore() *memAppointmentStore {
	return &memAppointmentStore{byID: map[string]*models.Appointment{}}
}

func (m *memAppointmentStore) add(appt *models.Appointment) *models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	cp := *appt
	m.byID[appt.ID] = &cp
	return appt
}

func (m *memAppointmentStore) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	appt, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *appt
	return &cp, nil
}

func (m *memAppointmentStore) CreateIfSlotFree(_ context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for _, existing := range m.byID {
		if existing.DoctorID == appt.DoctorID &&
			existing.Date == appt.Date &&
			existing.TimeSlot == appt.TimeSlot &&
			existing.Status != models.StatusCancelled {
			return ErrConflict
		}
	}
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	cp := *appt
	m.byID[appt.ID] = &cp
	return nil
}

func (m *memAppointmentStore) UpdateStatus(_ context.Context, id string, status models.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	appt.Status = status
	return nil
}

func (m *memAppointmentStore) ListForDoctorDay(_ context.Context, doctorID, date string) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, appt := range m.byID {
		if appt.DoctorID == doctorID && appt.Date == date {
			out = append(out, *appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeSlot < out[j].TimeSlot })
	return out, nil
}

func (m *memAppointmentStore) ListForUser(_ context.Context, userID string, role models.Role) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, appt := range m.byID {
		if appt.Status == models.StatusCancelled {
			continue
		}
		if role == models.RoleDoctor && appt.DoctorID != userID {
			continue
		}
		if role == models.RolePatient && appt.PatientID != userID {
			continue
		}
		out = append(out, *appt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out, nil
}

type memAvailabilityStore struct {
	mu      sync.Mutex
	entries map[string]*models.Availability // keyed by doctorID|date
}

func newMemAvailabilityStore() *memAvailabilityStore {
	return &memAvailabilityStore{entries: map[string]*models.Availability{}}
}

func (m *memAvailabilityStore) Get(_ context.Context, doctorID, date string) (*models.Availability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[doctorID+"|"+date]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

func (m *memAvailabilityStore) Replace(_ context.Context, entry *models.Availability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries[entry.DoctorID+"|"+entry.Date] = &cp
	return nil
}

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserStore(users ...*models.User) *memUserStore {
	m := &memUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memDocumentStore struct {
	mu   sync.Mutex
	byID map[string]*models.Document
	fail error
}

func newMemDocumentStore() *memDocumentStore {
	return &memDocumentStore{byID: map[string]*models.Document{}}
}

func (m *memDocumentStore) GetByID(_ context.Context, id string) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (m *memDocumentStore) GetByAppointment(_ context.Context, appointmentID string) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.byID {
		if doc.AppointmentID == appointmentID {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memDocumentStore) Save(_ context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for _, existing := range m.byID {
		if existing.AppointmentID == doc.AppointmentID && existing.ID != doc.ID {
			return ErrConflict
		}
	}
	cp := *doc
	m.byID[doc.ID] = &cp
	return nil
}

func (m *memDocumentStore) UpdateNotes(_ context.Context, id, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	doc.Notes = notes
	return nil
}

func (m *memDocumentStore) ListForUser(_ context.Context, userID string, role models.Role) ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Document
	for _, doc := range m.byID {
		if role == models.RoleDoctor && doc.DoctorID != userID {
			continue
		}
		if role == models.RolePatient && doc.PatientID != userID {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}

type memBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	types   map[string]string
	putFail error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}, types: map[string]string{}}
}

func (m *memBlobStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putFail != nil {
		return m.putFail
	}
	m.blobs[key] = append([]byte(nil), data...)
	m.types[key] = contentType
	return nil
}

func (m *memBlobStore) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, "", errors.New("blob not found")
	}
	return data, m.types[key], nil
}

// recordingNotifier captures every publication for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

type sentNotification struct {
	Subject   string
	Body      string
	Recipient string
}

func (n *recordingNotifier) Publish(_ context.Context, subject, body, recipient string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Subject: subject, Body: body, Recipient: recipient})
	return nil
}

func (n *recordingNotifier) all() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}

func testDispatcher(n Notifier) *Dispatcher {
	return NewDispatcher(n, zerolog.Nop())
}
