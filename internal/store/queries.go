// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	credentialsTable = "credentials"
	nameColumn       = "name"
	valueColumn      = "value"
	updatedAtColumn  = "updated_at"
)

// SQLite takes "?" placeholders, squirrel's default.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func selectValuesQuery(names []string) (string, []any, error) {
	return qb.Select(nameColumn, valueColumn).
		From(credentialsTable).
		Where(sq.Eq{nameColumn: names}).
		ToSql()
}

func upsertValueQuery(name, value string, at time.Time) (string, []any, error) {
	return qb.Insert(credentialsTable).
		Columns(nameColumn, valueColumn, updatedAtColumn).
		Values(name, value, at).
		Suffix("ON CONFLICT(" + nameColumn + ") DO UPDATE SET " +
			valueColumn + " = excluded." + valueColumn + ", " +
			updatedAtColumn + " = excluded." + updatedAtColumn).
		ToSql()
}

func deleteValuesQuery(names []string) (string, []any, error) {
	return qb.Delete(credentialsTable).
		Where(sq.Eq{nameColumn: names}).
		ToSql()
}
