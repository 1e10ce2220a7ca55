package fleet

import (
	"context"
	"io"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// documentURLExpiry bounds how long a presigned download link stays valid.
const documentURLExpiry = 15 * time.Minute

// CreateCertificateRequest carries the registry fields for a new
// certificate.  CertType is free text normalized via ParseCertType.
type CreateCertificateRequest struct {
	ShipID    common.ID  `json:"ship_id" binding:"required"`
	CertName  string     `json:"cert_name" binding:"required"`
	CertType  string     `json:"cert_type"`
	Issuer    string     `json:"issuer"`
	IssueDate *time.Time `json:"issue_date,omitempty"`
	ValidDate *time.Time `json:"valid_date,omitempty"`
}

// DocumentUpload describes an incoming certificate scan.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CertificateService manages the certificate registry and its document
// archive.
type CertificateService interface {
	CreateCertificate(ctx context.Context, req CreateCertificateRequest) (*certificate.Certificate, error)
	GetCertificate(ctx context.Context, id common.ID) (*certificate.Certificate, error)
	ListByShip(ctx context.Context, shipID common.ID) ([]*certificate.Certificate, error)

	// UploadDocument archives the original scan and records its storage
	// key on the certificate.
	UploadDocument(ctx context.Context, certID common.ID, upload DocumentUpload) (*certificate.Certificate, error)

	// DocumentURL returns a time-limited download link for the archived
	// scan.
	DocumentURL(ctx context.Context, certID common.ID) (string, error)
}

type certificateServiceImpl struct {
	certs     certificate.Repository
	ships     ship.Repository
	documents certificate.DocumentStore
	logger    logging.Logger
}

// NewCertificateService wires the certificate registry.  documents may be
// nil when no object storage is configured; uploads then fail with a
// storage error.
func NewCertificateService(
	certs certificate.Repository,
	ships ship.Repository,
	documents certificate.DocumentStore,
	logger logging.Logger,
) CertificateService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &certificateServiceImpl{
		certs:     certs,
		ships:     ships,
		documents: documents,
		logger:    logger.Named("fleet.certificate"),
	}
}

func (s *certificateServiceImpl) CreateCertificate(ctx context.Context, req CreateCertificateRequest) (*certificate.Certificate, error) {
	if _, err := s.ships.GetByID(ctx, req.ShipID); err != nil {
		return nil, err
	}
	cert, err := certificate.NewCertificate(req.ShipID, req.CertName, certificate.ParseCertType(req.CertType))
	if err != nil {
		return nil, err
	}
	cert.Issuer = req.Issuer
	cert.IssueDate = req.IssueDate
	cert.ValidDate = req.ValidDate

	if err := s.certs.Create(ctx, cert); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "creating certificate")
	}
	s.logger.Info("certificate registered",
		logging.String("certificate_id", cert.ID.String()),
		logging.String("ship_id", cert.ShipID.String()),
		logging.String("cert_name", cert.CertName))
	return cert, nil
}

func (s *certificateServiceImpl) GetCertificate(ctx context.Context, id common.ID) (*certificate.Certificate, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return s.certs.GetByID(ctx, id)
}

func (s *certificateServiceImpl) ListByShip(ctx context.Context, shipID common.ID) ([]*certificate.Certificate, error) {
	if err := shipID.Validate(); err != nil {
		return nil, err
	}
	return s.certs.FindByShip(ctx, shipID)
}

func (s *certificateServiceImpl) UploadDocument(ctx context.Context, certID common.ID, upload DocumentUpload) (*certificate.Certificate, error) {
	if s.documents == nil {
		return nil, errors.New(errors.ErrCodeStorageError, "document storage is not configured")
	}
	cert, err := s.GetCertificate(ctx, certID)
	if err != nil {
		return nil, err
	}

	key, err := s.documents.Put(ctx, certID, upload.Filename, upload.ContentType, upload.Size, upload.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDocumentUploadFailed, "archiving certificate document")
	}
	if err := s.certs.SetDocumentKey(ctx, certID, key); err != nil {
		// Remove the orphaned object so a retry starts clean.
		if rmErr := s.documents.Remove(ctx, key); rmErr != nil {
			s.logger.Warn("orphaned document not removed",
				logging.String("key", key), logging.Err(rmErr))
		}
		return nil, errors.Wrap(err, errors.ErrCodeCertificateUpdateFailed, "recording document key")
	}
	cert.DocumentKey = key

	s.logger.Info("certificate document archived",
		logging.String("certificate_id", certID.String()),
		logging.String("key", key))
	return cert, nil
}

func (s *certificateServiceImpl) DocumentURL(ctx context.Context, certID common.ID) (string, error) {
	if s.documents == nil {
		return "", errors.New(errors.ErrCodeStorageError, "document storage is not configured")
	}
	cert, err := s.GetCertificate(ctx, certID)
	if err != nil {
		return "", err
	}
	if cert.DocumentKey == "" {
		return "", errors.New(errors.ErrCodeDocumentNotFound, "certificate has no archived document")
	}
	return s.documents.PresignedGet(ctx, cert.DocumentKey, documentURLExpiry)
}
