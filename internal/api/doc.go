// Package api contains the HTTP handlers, request/response models, and
// routing concerns of the application. Handlers translate between the HTTP
// surface and the service layer; they hold no business logic of their own.
package api
