// Package endpoint describes routed endpoints and the authorization metadata
// attached to them. The authorization middleware inspects this metadata to
// decide which policies protect a request.
package endpoint

// AuthorizeData marks an endpoint as requiring authorization. Policy names a
// stored or registered policy; when empty, the provider's default policy is
// combined instead.
type AuthorizeData struct {
	Policy string
}

// AllowAnonymous marks an endpoint as reachable without authentication. It
// overrides every AuthorizeData on the same endpoint.
type AllowAnonymous struct{}

// Endpoint is a routed endpoint with its display name and metadata items.
// Metadata holds arbitrary values; the authorization middleware looks for
// AuthorizeData and AllowAnonymous entries and ignores the rest.
type Endpoint struct {
	Name     string
	Metadata []any
}

// New creates an endpoint with the given name and metadata items.
func New(name string, metadata ...any) *Endpoint {
	return &Endpoint{
		Name:     name,
		Metadata: metadata,
	}
}

// DisplayName returns the endpoint name, or an empty string for a nil
// endpoint. Requests outside any routed endpoint still reach the
// authorization middleware, which logs the name.
func (e *Endpoint) DisplayName() string {
	if e == nil {
		return ""
	}
	return e.Name
}

// AuthorizeData returns every authorization marker on the endpoint in
// declaration order.
func (e *Endpoint) AuthorizeData() []AuthorizeData {
	if e == nil {
		return nil
	}
	var data []AuthorizeData
	for _, item := range e.Metadata {
		if ad, ok := item.(AuthorizeData); ok {
			data = append(data, ad)
		}
	}
	return data
}

// AllowsAnonymous reports whether the endpoint carries an AllowAnonymous
// marker.
func (e *Endpoint) AllowsAnonymous() bool {
	if e == nil {
		return false
	}
	for _, item := range e.Metadata {
		if _, ok := item.(AllowAnonymous); ok {
			return true
		}
	}
	return false
}
