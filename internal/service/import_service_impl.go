package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/workplan/internal/db"
	"github.com/alexanderramin/workplan/internal/importer"
	"github.com/alexanderramin/workplan/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	logger   zerolog.Logger
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, logger zerolog.Logger, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, logger: logger, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	file, err := importer.LoadProvisioning(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading provisioning file: %w", err)
	}
	return s.Import(ctx, file)
}

// Import validates the file against the stored tree and writes everything in
// one transaction; a failure leaves the database untouched.
func (s *importService) Import(ctx context.Context, file *importer.ProvisioningFile) (result *ImportResult, err error) {
	defer observe(ctx, s.observer, "provisioning.import", time.Now(), &err, nil)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		orgs := repository.NewSQLiteOrgRepo(tx)
		operations := repository.NewSQLiteOperationRepo(tx)

		existing, err := orgs.List(ctx)
		if err != nil {
			return err
		}
		if errs := importer.ValidateProvisioning(file, existing); len(errs) > 0 {
			return formatValidationErrors(errs)
		}

		out, err := importer.Convert(file, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("converting provisioning file: %w", err)
		}
		for _, o := range out.OrgUnits {
			if err := orgs.Create(ctx, o); err != nil {
				return fmt.Errorf("creating org unit %q: %w", o.ID, err)
			}
		}
		for _, op := range out.Operations {
			if err := operations.Create(ctx, op); err != nil {
				return fmt.Errorf("creating operation %q: %w", op.Name, err)
			}
		}
		result = &ImportResult{OrgUnitCount: len(out.OrgUnits), OperationCount: len(out.Operations)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("org_units", result.OrgUnitCount).
		Int("operations", result.OperationCount).
		Msg("Provisioning imported")
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("provisioning validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
