package sql

import (
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/update_run_status.sql
var UpdateRunStatus string

//go:embed queries/insert_readmission_month.sql
var InsertReadmissionMonth string

//go:embed queries/insert_metric_snapshot.sql
var InsertMetricSnapshot string

//go:embed queries/latest_snapshot.sql
var LatestSnapshot string
