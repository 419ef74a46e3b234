package domain

import (
	"github.com/yungbote/echonova-backend/internal/domain/diagnostic"
)

type Company = diagnostic.Company
type Track = diagnostic.Track
type DiagnosticSession = diagnostic.Session
type DiagnosticReport = diagnostic.Report

var (
	ErrNotFound        = diagnostic.ErrNotFound
	ErrInvalidDocument = diagnostic.ErrInvalidDocument
)
