// Package http provides JSON response helpers, a thin request wrapper and the
// read-only locator inspector.
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(data)             // 200 {"data": ...}
//	res.Error(409, "conflict")    // {"message": "conflict"}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.ServerError()             // 500 {"message": "Server Error."}
//
// # Request
//
//	req := gohttp.NewRequest(r)
//	prefix := req.Query("prefix", "")
//	key := req.RouteParam("key")
//
// # Inspector
//
//	router := routing.New(logger)
//	router.Prefix("/debug", gohttp.NewInspector(l).Routes)
package http
