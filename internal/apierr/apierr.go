// Package apierr traduit les erreurs du domaine en réponses HTTP.
package apierr

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/eugeniogarcia/django/internal/logs"
	"github.com/eugeniogarcia/django/internal/permission"
	"github.com/eugeniogarcia/django/internal/store"
)

// NonFieldErrors regroupe les erreurs qui ne visent aucun champ précis.
const NonFieldErrors = "non_field_errors"

// ValidationError porte les messages d'erreur par champ JSON.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "données invalides (" + strings.Join(parts, "; ") + ")"
}

// Field construit une ValidationError sur un seul champ.
func Field(name, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{name: {message}}}
}

var registerOnce sync.Once

// UseJSONFieldNames fait remonter les noms de tags json dans les erreurs du validateur de gin.
func UseJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// FromBinding convertit une erreur de binding gin en ValidationError.
func FromBinding(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := map[string][]string{}
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], describe(fe))
		}
		return &ValidationError{Fields: fields}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return Field(typeErr.Field, "type invalide, "+typeErr.Type.String()+" attendu")
	}

	if errors.Is(err, io.EOF) {
		return Field(NonFieldErrors, "corps de requête vide")
	}
	return Field(NonFieldErrors, err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "ce champ est obligatoire"
	case "max":
		return "au plus " + fe.Param() + " caractères"
	case "min":
		return "au moins " + fe.Param() + " caractères"
	case "email":
		return "adresse email invalide"
	default:
		return "valeur invalide (" + fe.Tag() + ")"
	}
}

// Status renvoie le code HTTP correspondant à err.
func Status(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, permission.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, permission.ErrDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Respond écrit la réponse d'erreur et interrompt la chaîne de handlers.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	body := gin.H{"error": err.Error()}

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		body["error"] = "Données invalides"
		body["fields"] = verr.Fields
	case status == http.StatusNotFound:
		body["error"] = "Introuvable"
	case status == http.StatusInternalServerError:
		body["error"] = "Erreur interne du serveur"
		logs.LogJSON("ERROR", "Unhandled error", map[string]interface{}{
			"error":  err.Error(),
			"route":  c.FullPath(),
			"userID": c.GetString("user_id"),
		})
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
