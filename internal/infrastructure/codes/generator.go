// Package codes acuña los códigos de autorización (CAE/CAEA): 14 dígitos
// decimales, únicos durante toda la vida del proceso.
package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"github.com/jhoicas/wsfe-api/internal/application/wsfe"
)

// Ensure Generator implements wsfe.CodeGenerator.
var _ wsfe.CodeGenerator = (*Generator)(nil)

// maxCode límite exclusivo: códigos en [0, 10^14).
var maxCode = new(big.Int).Exp(big.NewInt(10), big.NewInt(14), nil)

// Generator genera códigos aleatorios y recuerda los ya emitidos para
// garantizar que un código jamás se repita.
type Generator struct {
	mu     sync.Mutex
	issued map[string]struct{}
}

// NewGenerator construye el generador.
func NewGenerator() *Generator {
	return &Generator{issued: make(map[string]struct{})}
}

// NextCode devuelve un código de 14 dígitos no emitido antes.
func (g *Generator) NextCode() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		n, err := rand.Int(rand.Reader, maxCode)
		if err != nil {
			return "", fmt.Errorf("generar código: %w", err)
		}
		code := fmt.Sprintf("%014d", n)
		if _, dup := g.issued[code]; dup {
			continue
		}
		g.issued[code] = struct{}{}
		return code, nil
	}
}
