// Package http provides Laravel-style request and response helpers for the
// framework's JSON endpoints.
//
//	func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
//	    req := gohttp.NewRequest(r)
//	    res := gohttp.NewResponse(w)
//
//	    key := req.RouteParam("key")
//	    if key == "" {
//	        res.NotFound()
//	        return
//	    }
//	    res.Success(map[string]any{"key": key, "reveal": req.QueryBool("reveal")})
//	}
//
// Error bodies follow Laravel's shapes:
//
//	{"message": "Not found."}
//	{"message": "The configuration is invalid.", "errors": [...]}
//	{"errors": {"app.port": ["The app.port must be an integer."]}}
package http
