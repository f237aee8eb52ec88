package models

import "time"

// Document represents a clinical report attached to an appointment. Exactly
// one live document exists per appointment: a second upload for the same
// appointment overwrites this record and its blob instead of creating a
// new one.
type Document struct {
	BaseModel
	AppointmentID    string `gorm:"size:36;uniqueIndex" json:"appointmentId"`
	PatientID        string `gorm:"size:36;index" json:"patientId"`
	DoctorID         string `gorm:"size:36;index" json:"doctorId"`
	ExamType         string `gorm:"size:100" json:"examType"`
	ExamDate         string `gorm:"size:10" json:"examDate"`
	BlobKey          string `gorm:"size:255" json:"-"`
	OriginalFilename string `gorm:"size:255" json:"originalFilename"`
	Notes            string `gorm:"type:text" json:"notes"`

	// DoctorName is enriched on read from the doctor's profile; it is not
	// stored on the document record.
	DoctorName string `gorm:"-" json:"doctorName,omitempty"`
}

// DocumentBlob holds the raw bytes of an uploaded report, addressed by an
// opaque key. Re-uploads for the same document overwrite the same key.
type DocumentBlob struct {
	Key         string    `gorm:"primaryKey;size:255" json:"key"`
	ContentType string    `gorm:"size:100" json:"contentType"`
	Data        []byte    `gorm:"type:longblob;not null" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
