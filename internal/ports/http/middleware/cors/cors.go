package cors

import (
	"net/http"

	"github.com/rs/cors"
)

// AddCorsPolicy wraps the handler with the CORS policy of the API.
// The API only ever registers GET and POST routes.
func AddCorsPolicy(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})

	return c.Handler(handler)
}
