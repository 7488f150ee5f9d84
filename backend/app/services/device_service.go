package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/repo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	codePrefix      = "GG"
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeGenAttempts = 10
)

var codePattern = regexp.MustCompile(`^GG-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

type DeviceService struct {
	devices *repo.DeviceRepository
	jobs    *repo.JobRepository
	// genCode is swappable for collision tests.
	genCode func() (string, error)
}

func NewDeviceService(devices *repo.DeviceRepository, jobs *repo.JobRepository) *DeviceService {
	s := &DeviceService{devices: devices, jobs: jobs}
	s.genCode = s.randomCode
	return s
}

func (s *DeviceService) randomCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return fmt.Sprintf("%s-%s-%s", codePrefix, buf[:4], buf[4:]), nil
}

// Register creates a new unowned device. With no requested code a candidate
// is generated, retrying up to codeGenAttempts times on a uniqueness
// collision; exhausting the attempts is an operational anomaly surfaced as a
// conflict.
func (s *DeviceService) Register(requestedCode string) (*models.Device, error) {
	code := requestedCode
	if code != "" {
		if !codePattern.MatchString(code) {
			return nil, apperr.New(apperr.Validation, "device_code must match GG-XXXX-XXXX")
		}
		if exists, err := s.devices.CodeExists(code); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "check device code", err)
		} else if exists {
			return nil, apperr.New(apperr.Conflict, "device_code already registered")
		}
	} else {
		var err error
		code, err = s.uniqueCode()
		if err != nil {
			return nil, err
		}
	}
	d := &models.Device{
		ID:         uuid.NewString(),
		DeviceCode: code,
		Status:     models.DeviceStatusOffline,
	}
	if err := s.devices.Create(d); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "create device", err)
	}
	return d, nil
}

func (s *DeviceService) uniqueCode() (string, error) {
	for i := 0; i < codeGenAttempts; i++ {
		code, err := s.genCode()
		if err != nil {
			return "", apperr.Wrap(apperr.Internal, "generate device code", err)
		}
		exists, err := s.devices.CodeExists(code)
		if err != nil {
			return "", apperr.Wrap(apperr.Internal, "check device code", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperr.New(apperr.Conflict, "could not allocate a unique device code")
}

// Activate claims the device for ownerID. Idempotent: re-activating with the
// same owner returns the current state unchanged; a different owner is
// rejected.
func (s *DeviceService) Activate(code, ownerID, ownerName string) (*models.Device, error) {
	d, err := s.lookup(code)
	if err != nil {
		return nil, err
	}
	if d.Owned() && !d.OwnedBy(ownerID) {
		return nil, apperr.New(apperr.Authorization, "device belongs to another account")
	}
	if d.IsActive && d.OwnedBy(ownerID) {
		return d, nil
	}
	if err := s.devices.SetOwner(code, ownerID, ownerName); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "activate device", err)
	}
	return s.lookup(code)
}

// Reset de-provisions a device: ownership, activation and standing token are
// cleared and any still-queued jobs dropped. Queued work for an unowned
// device is meaningless.
func (s *DeviceService) Reset(code string) error {
	d, err := s.lookup(code)
	if err != nil {
		return err
	}
	if err := s.devices.Clear(code); err != nil {
		return apperr.Wrap(apperr.Internal, "reset device", err)
	}
	if err := s.jobs.DeleteQueuedByDevice(d.ID); err != nil {
		return apperr.Wrap(apperr.Internal, "drop queued jobs", err)
	}
	return nil
}

func (s *DeviceService) LookupByCode(code string) (*models.Device, error) { return s.lookup(code) }

func (s *DeviceService) LookupByID(id string) (*models.Device, error) {
	d, err := s.devices.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "device not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "lookup device", err)
	}
	return d, nil
}

func (s *DeviceService) lookup(code string) (*models.Device, error) {
	d, err := s.devices.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "device not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "lookup device", err)
	}
	return d, nil
}
