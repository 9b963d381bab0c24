// SPDX-License-Identifier: Apache-2.0

package store

const (
	createTargetsTable = `
		CREATE TABLE IF NOT EXISTS targets (
			id         INTEGER PRIMARY KEY,
			payload    TEXT NOT NULL,
			image      BLOB,
			format     TEXT NOT NULL DEFAULT '',
			image_mark TEXT NOT NULL DEFAULT ''
		);`

	upsertTarget = `
		INSERT INTO targets (id, payload)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload;`

	loadAllEntries = `
		SELECT
			id,
			payload,
			format,
			image_mark
		FROM targets;`

	saveImage = `
		UPDATE targets SET
			image      = $1,
			format     = $2,
			image_mark = $3
		WHERE id = $4;`

	deleteImage = `
		UPDATE targets SET
			image      = NULL,
			format     = '',
			image_mark = ''
		WHERE id = $1;`

	deleteTarget = `
		DELETE FROM targets
		WHERE id = $1;`

	clearTargets = `
		DELETE FROM targets;`
)
