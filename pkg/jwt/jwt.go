// Package jwt implementa el ticket de acceso (TA) que emite el WSAA simulado.
// Para el autorizador el token es opaco: solo interesa que no esté vencido y
// que declare la CUIT del contribuyente que firma la petición.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired indica que el ticket de acceso está vencido (error AFIP 600).
var ErrTokenExpired = errors.New("ticket de acceso vencido")

// Claims incluye los claims estándar JWT más la CUIT del contribuyente.
type Claims struct {
	jwt.RegisteredClaims
	Cuit string `json:"cuit"`
}

// Generate emite un ticket de acceso firmado para la CUIT dada.
// Lo usa el endpoint de login (análogo a LoginCms) y los tests; el motor de
// autorización nunca emite tokens, solo los valida con Parse.
func Generate(secret, cuit, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if cuit == "" {
		return "", fmt.Errorf("jwt: cuit vacía")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   cuit,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Cuit: cuit,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el ticket y devuelve la CUIT del contribuyente.
// Retorna ErrTokenExpired si las fechas GenTime/ExpTime no validan, u otro
// error si el token es ilegible o la firma es incorrecta.
func Parse(secret, tokenString string) (cuit string, err error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Cuit == "" {
		return "", fmt.Errorf("claims inválidos")
	}
	return claims.Cuit, nil
}
