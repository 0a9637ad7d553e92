package tracker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonathan/candidate-tracker/internal/ingestion"
	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/types"
	"go.uber.org/zap"
)

// ImportReport summarizes a committed import.
type ImportReport struct {
	FileName   string                `json:"fileName"`
	Mode       types.ImportMode      `json:"mode"`
	Parsed     int                   `json:"parsed"`
	Added      int                   `json:"added"`
	Duplicates int                   `json:"duplicates"`
	Failed     int                   `json:"failed"`
	Replaced   bool                  `json:"replaced"`
	Failures   []*ingestion.RowError `json:"-"`
}

// FailureMessages renders each rejected row as text.
func (r *ImportReport) FailureMessages() []string {
	out := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, f.Error())
	}
	return out
}

// Import parses a CSV or JSON export, chosen by the file extension, and
// commits it with mode. A file without a single valid record commits nothing.
func (s *Service) Import(ctx context.Context, fileName string, content []byte, mode types.ImportMode) (*ImportReport, error) {
	if mode != types.ImportMerge && mode != types.ImportReplace {
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}

	logger := s.logger.With(zap.String("file", fileName), zap.String("mode", string(mode)))
	existing := s.store.All()

	var (
		result *ingestion.Result
		err    error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		result, err = s.importer.ImportCSV(string(content), existing)
		if err != nil {
			logger.Warn("CSV import rejected", zap.Error(err))
			s.notifier.Notify(notify.LevelDanger, fmt.Sprintf("Erreur lors de l'importation du fichier CSV: %v", err))
			return nil, err
		}
	case ".json":
		result, err = s.importer.ImportJSON(content, existing)
		if err != nil {
			logger.Warn("JSON import rejected", zap.Error(err))
			s.notifier.Notify(notify.LevelDanger, "Format de fichier JSON invalide.")
			return nil, err
		}
	default:
		s.notifier.Notify(notify.LevelDanger, "Format de fichier non supporté. Utilisez un fichier CSV ou JSON.")
		return nil, &ingestion.ImportError{
			Message: fmt.Sprintf("unsupported file type %q", filepath.Ext(fileName)),
			Cause:   ingestion.ErrInvalidFormat,
		}
	}

	report := &ImportReport{
		FileName: fileName,
		Mode:     mode,
		Parsed:   len(result.Parsed),
		Failed:   result.FailedCount(),
		Failures: result.Failures,
	}

	if len(result.Parsed) == 0 {
		logger.Warn("no valid candidate in file", zap.Int("failed", report.Failed))
		s.notifier.Notify(notify.LevelWarning, "Aucun candidat valide trouvé dans le fichier.")
		return report, nil
	}

	if mode == types.ImportReplace {
		if err := s.store.Replace(ctx, result.Parsed); err != nil {
			s.notifyStoreError(err)
			return nil, err
		}
		report.Added = len(result.Parsed)
		report.Replaced = true
		s.notifier.Notify(notify.LevelSuccess, "Données remplacées avec succès !")
	} else {
		if err := s.store.Append(ctx, result.New); err != nil {
			s.notifyStoreError(err)
			return nil, err
		}
		report.Added = len(result.New)
		report.Duplicates = len(result.Duplicates)
		s.notifier.Notify(notify.LevelSuccess, mergeMessage(report))
	}

	logger.Info("import committed",
		zap.Int("parsed", report.Parsed),
		zap.Int("added", report.Added),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func mergeMessage(r *ImportReport) string {
	msg := fmt.Sprintf("%d nouveau(x) candidat(s) ajouté(s) avec succès !", r.Added)
	if r.Duplicates > 0 {
		msg += fmt.Sprintf("\n%d candidat(s) ignoré(s) (email déjà existant).", r.Duplicates)
	}
	if r.Failed > 0 {
		msg += fmt.Sprintf("\n%d ligne(s) invalide(s) ignorée(s).", r.Failed)
	}
	return msg
}
