package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Sources errors
	SourcesConfigError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError
	SchemaIndexError
	SchemaVerifyError

	// Pipeline errors
	PipelineNoSourceFilesError
	PipelineFileReadError
	PipelineHeaderError
	PipelineStoreError
	PipelineLoadError
	PipelineEmptyTableError

	// Analytics errors
	AnalyticsInsufficientDataError
	AnalyticsStoreError
	AnalyticsLoadError

	// Export errors
	ExportCreateFileError
	ExportWriteError
	ExportFormatError
)
