// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the auth ports. The mocks are generated with go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	exchanger := mocks.NewMockTokenExchanger(ctrl)
//	exchanger.EXPECT().Exchange(gomock.Any(), gomock.Any()).Return(identity, nil)
package mocks

// Generate mock for TokenExchanger from internal/ports.
// This creates MockTokenExchanger with Exchange, Refresh, and Revoke.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=token_exchanger_mock.go github.com/yupiflow/admin-gateway/internal/ports TokenExchanger

// Generate mock for SessionStore from internal/ports.
// This creates MockSessionStore with Save, Get, and Delete.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_store_mock.go github.com/yupiflow/admin-gateway/internal/ports SessionStore

// Generate mock for AuditRecorder from internal/ports.
// This creates MockAuditRecorder with Record.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=audit_recorder_mock.go github.com/yupiflow/admin-gateway/internal/ports AuditRecorder
