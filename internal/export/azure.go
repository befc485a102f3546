// Package export pushes the aggregated holidays table to Azure Table
// Storage. Rows are grouped by partition key (country code) and written in
// transactions of at most 100 entities; row keys are unique within a
// partition via a numeric suffix on collision, so a duplicate holiday never
// overwrites a prior row.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"github.com/jonathan/holiday-collector/internal/aggregate"
)

// ConnectionStringEnv is the environment variable holding the Azure storage
// connection string.
const ConnectionStringEnv = "AZURE_TABLE_CONNECTION_STRING"

// DefaultTableName is the table written to when none is configured.
const DefaultTableName = "PublicHolidays"

// batchSize is the Azure Tables transaction limit.
const batchSize = 100

// slugMaxLen caps the row-key slug before any collision suffix.
const slugMaxLen = 40

// Options configures an export run.
type Options struct {
	TableName        string
	ConnectionString string
	// Upsert switches entity writes from create-or-fail to merge.
	Upsert bool
}

// Entity is one prepared table entity, keyed and flattened for storage.
type Entity struct {
	PartitionKey string
	RowKey       string
	Properties   map[string]any
}

// CSVToTable exports a holidays CSV (holidays_all.csv) to Azure Table
// Storage and returns the number of entities written. Missing configuration
// errors out before any write is attempted.
func CSVToTable(ctx context.Context, csvPath string, opts Options) (int, error) {
	conn := opts.ConnectionString
	if conn == "" {
		conn = os.Getenv(ConnectionStringEnv)
	}
	if conn == "" {
		return 0, fmt.Errorf("missing Azure connection string (set %s)", ConnectionStringEnv)
	}
	tableName := opts.TableName
	if tableName == "" {
		tableName = DefaultTableName
	}

	rows, err := ReadRowsCSV(csvPath)
	if err != nil {
		return 0, err
	}
	entities := EntitiesFromRows(rows)

	svc, err := aztables.NewServiceClientFromConnectionString(conn, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create table service client: %w", err)
	}
	client := svc.NewClient(tableName)

	if _, err := client.CreateTable(ctx, nil); err != nil && !isTableExists(err) {
		return 0, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	total := 0
	for _, partition := range partitionOrder(entities) {
		partEntities := entitiesForPartition(entities, partition)
		for start := 0; start < len(partEntities); start += batchSize {
			end := start + batchSize
			if end > len(partEntities) {
				end = len(partEntities)
			}
			batch := partEntities[start:end]

			actions, err := transactionActions(batch, opts.Upsert)
			if err != nil {
				return total, err
			}
			if _, err := client.SubmitTransaction(ctx, actions, nil); err != nil {
				return total, fmt.Errorf("transaction failed for partition %s: %w", partition, err)
			}
			total += len(batch)
			log.Printf("[EXPORT] pushed %d entities for partition %s", len(batch), partition)
		}
	}
	log.Printf("[EXPORT] Azure Table export complete: %d entities", total)
	return total, nil
}

// ReadRowsCSV reads a holidays_all.csv back into aggregate rows, keyed by
// the header line.
func ReadRowsCSV(path string) ([]aggregate.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	field := func(record []string, name string) string {
		if i, ok := col[name]; ok && i < len(record) {
			return record[i]
		}
		return ""
	}

	var rows []aggregate.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		rows = append(rows, aggregate.Row{
			CountryCode: strings.TrimSpace(field(record, "country_code")),
			CountryName: field(record, "country_name"),
			Date:        strings.TrimSpace(field(record, "date")),
			LocalName:   field(record, "local_name"),
			Name:        strings.TrimSpace(field(record, "name")),
			Fixed:       strings.EqualFold(field(record, "fixed"), "true"),
			Global:      strings.EqualFold(field(record, "global"), "true"),
			Counties:    field(record, "counties"),
			Types:       field(record, "types"),
		})
	}
	return rows, nil
}

// EntitiesFromRows converts rows into table entities. PartitionKey is the
// country code; RowKey is "<date>_<slug(name)>", suffixed "_2", "_3", … on
// collision within the same partition.
func EntitiesFromRows(rows []aggregate.Row) []Entity {
	seen := make(map[[2]string]bool, len(rows))
	entities := make([]Entity, 0, len(rows))
	for _, row := range rows {
		base := row.Date + "_" + Slug(row.Name)
		rowKey := base
		for idx := 1; seen[[2]string{row.CountryCode, rowKey}]; {
			idx++
			rowKey = fmt.Sprintf("%s_%d", base, idx)
		}
		seen[[2]string{row.CountryCode, rowKey}] = true

		year := 0
		if parts := strings.SplitN(row.Date, "-", 2); len(parts) > 0 {
			year, _ = strconv.Atoi(parts[0])
		}

		entities = append(entities, Entity{
			PartitionKey: row.CountryCode,
			RowKey:       rowKey,
			Properties: map[string]any{
				"CountryName": row.CountryName,
				"Date":        row.Date,
				"LocalName":   row.LocalName,
				"Name":        row.Name,
				"Fixed":       row.Fixed,
				"Global":      row.Global,
				"Counties":    row.Counties,
				"Types":       row.Types,
				"Year":        year,
			},
		})
	}
	return entities
}

// Slug lowercases and strips a value to alphanumerics, capped at 40 runes.
// An empty result becomes "x" so the row key is never empty.
func Slug(val string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(val) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			if sb.Len() >= slugMaxLen {
				break
			}
		}
	}
	if sb.Len() == 0 {
		return "x"
	}
	return sb.String()
}

func partitionOrder(entities []Entity) []string {
	seen := make(map[string]bool)
	var partitions []string
	for _, e := range entities {
		if !seen[e.PartitionKey] {
			seen[e.PartitionKey] = true
			partitions = append(partitions, e.PartitionKey)
		}
	}
	sort.Strings(partitions)
	return partitions
}

func entitiesForPartition(entities []Entity, partition string) []Entity {
	var out []Entity
	for _, e := range entities {
		if e.PartitionKey == partition {
			out = append(out, e)
		}
	}
	return out
}

func transactionActions(batch []Entity, upsert bool) ([]aztables.TransactionAction, error) {
	actionType := aztables.TransactionTypeAdd
	if upsert {
		actionType = aztables.TransactionTypeInsertMerge
	}
	actions := make([]aztables.TransactionAction, 0, len(batch))
	for _, e := range batch {
		edm := aztables.EDMEntity{
			Entity:     aztables.Entity{PartitionKey: e.PartitionKey, RowKey: e.RowKey},
			Properties: e.Properties,
		}
		payload, err := json.Marshal(edm)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal entity %s/%s: %w", e.PartitionKey, e.RowKey, err)
		}
		actions = append(actions, aztables.TransactionAction{
			ActionType: actionType,
			Entity:     payload,
		})
	}
	return actions, nil
}

func isTableExists(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusConflict
}
