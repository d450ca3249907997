package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-search/internal/logger"
	"github.com/listenupapp/listenup-search/internal/scanner"
)

// ProvideScanner provides the folder scanner, reading tags with audiometa.
func ProvideScanner(i do.Injector) (*scanner.Scanner, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return scanner.NewScanner(nil, log.Component("scanner")), nil
}
