// Package permission contient les prédicats d'autorisation par objet.
package permission

import (
	"errors"
	"net/http"
)

var (
	ErrDenied           = errors.New("vous n'avez pas la permission d'effectuer cette action")
	ErrNotAuthenticated = errors.New("authentification requise")
)

// Authored est implémenté par les enregistrements qui ont un auteur.
type Authored interface {
	AuthorKey() string
}

// IsSafeMethod indique une méthode en lecture seule (GET, HEAD, OPTIONS).
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsAuthorOrReadOnly : tout le monde peut lire, seul l'auteur peut modifier.
// Un utilisateur anonyme ("") n'est jamais l'auteur.
func IsAuthorOrReadOnly(method, actingUser string, record Authored) bool {
	if IsSafeMethod(method) {
		return true
	}
	return actingUser != "" && record.AuthorKey() == actingUser
}

// CheckAuthorOrReadOnly renvoie l'erreur à remonter quand le prédicat refuse.
func CheckAuthorOrReadOnly(method, actingUser string, record Authored) error {
	if IsAuthorOrReadOnly(method, actingUser, record) {
		return nil
	}
	if actingUser == "" {
		return ErrNotAuthenticated
	}
	return ErrDenied
}
