// Package sqlite implements the embedded storage engine for pantry: schema
// management, typed repositories, custom-field resolution, full-text search
// and the backup/restore engine, all on a single SQLite file.
package sqlite

// Table DDL. Every statement carries an existence guard so schema
// initialization is an idempotent no-op once the structure exists.
const (
	createEntity = `CREATE TABLE IF NOT EXISTS Entity (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL CHECK(type IN ('item', 'category', 'place')),
    parent_id INTEGER,
    category_id INTEGER,
    name TEXT NOT NULL,
    description TEXT,
    icon TEXT,
    color TEXT,
    sort_order INTEGER,
    is_archived BOOLEAN NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME,
    deleted_at DATETIME,
    FOREIGN KEY (parent_id) REFERENCES Entity(id) ON DELETE SET NULL,
    FOREIGN KEY (category_id) REFERENCES Entity(id) ON DELETE SET NULL
);`

	createTag = `CREATE TABLE IF NOT EXISTS Tag (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    color TEXT,
    icon TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

	createEntityTag = `CREATE TABLE IF NOT EXISTS EntityTag (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_id INTEGER NOT NULL,
    tag_id INTEGER NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (entity_id) REFERENCES Entity(id) ON DELETE CASCADE,
    FOREIGN KEY (tag_id) REFERENCES Tag(id) ON DELETE CASCADE,
    UNIQUE(entity_id, tag_id)
);`

	createFile = `CREATE TABLE IF NOT EXISTS File (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_id INTEGER NOT NULL,
    file_path TEXT NOT NULL,
    file_name TEXT NOT NULL,
    mime_type TEXT,
    is_primary BOOLEAN NOT NULL DEFAULT 0,
    thumbnail_path TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (entity_id) REFERENCES Entity(id) ON DELETE CASCADE
);`

	createCode = `CREATE TABLE IF NOT EXISTS Code (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_id INTEGER NOT NULL,
    code_type TEXT NOT NULL,
    code_value TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (entity_id) REFERENCES Entity(id) ON DELETE CASCADE,
    UNIQUE(code_value, code_type)
);`

	createCustomField = `CREATE TABLE IF NOT EXISTS CustomField (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category_template_id INTEGER,
    entity_id INTEGER,
    field_name TEXT NOT NULL,
    field_type TEXT NOT NULL CHECK(
        field_type IN (
            'text', 'number', 'date', 'datetime', 'expiry_date',
            'textarea', 'checkbox', 'radio', 'select', 'file',
            'image', 'color', 'url', 'boolean', 'email'
        )
    ),
    is_required BOOLEAN NOT NULL DEFAULT 0,
    default_value TEXT,
    options TEXT,
    sort_order INTEGER,
    is_archived BOOLEAN NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME,
    deleted_at DATETIME,
    FOREIGN KEY (category_template_id) REFERENCES Entity(id) ON DELETE CASCADE,
    FOREIGN KEY (entity_id) REFERENCES Entity(id) ON DELETE CASCADE,
    CHECK (category_template_id IS NOT NULL OR entity_id IS NOT NULL)
);`

	createCustomFieldValue = `CREATE TABLE IF NOT EXISTS CustomFieldValue (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_id INTEGER NOT NULL,
    custom_field_id INTEGER NOT NULL,
    field_value TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME,
    FOREIGN KEY (entity_id) REFERENCES Entity(id) ON DELETE CASCADE,
    FOREIGN KEY (custom_field_id) REFERENCES CustomField(id) ON DELETE RESTRICT,
    UNIQUE(entity_id, custom_field_id)
);`

	createEntityFieldException = `CREATE TABLE IF NOT EXISTS EntityFieldException (
    entity_id INTEGER NOT NULL,
    custom_field_id INTEGER NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (entity_id, custom_field_id),
    FOREIGN KEY (entity_id) REFERENCES Entity(id) ON DELETE CASCADE,
    FOREIGN KEY (custom_field_id) REFERENCES CustomField(id) ON DELETE CASCADE
);`

	createSetting = `CREATE TABLE IF NOT EXISTS Setting (
    key TEXT PRIMARY KEY NOT NULL,
    value TEXT,
    updated_at DATETIME
);`

	createLocale = `CREATE TABLE IF NOT EXISTS Locale (
    code TEXT PRIMARY KEY NOT NULL,
    name TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

	// EntitySearch is the denormalized full-text projection. Application code
	// never writes it directly; the search triggers below own it.
	createEntitySearch = `CREATE VIRTUAL TABLE IF NOT EXISTS EntitySearch USING fts5(
    entity_id UNINDEXED,
    name,
    description,
    custom_values
);`
)

// Index DDL for the common query paths.
const (
	idxEntityParent   = `CREATE INDEX IF NOT EXISTS idx_entity_parent ON Entity(parent_id);`
	idxEntityCategory = `CREATE INDEX IF NOT EXISTS idx_entity_category ON Entity(category_id);`
	idxEntityListView = `CREATE INDEX IF NOT EXISTS idx_entity_list_view ON Entity(type, is_archived, name);`
	idxEntityRecent   = `CREATE INDEX IF NOT EXISTS idx_entity_recent ON Entity(created_at DESC);`
	idxEntityName     = `CREATE INDEX IF NOT EXISTS idx_entity_name ON Entity(name);`
	idxEntityTagOwner = `CREATE INDEX IF NOT EXISTS idx_entity_tag_entity ON EntityTag(entity_id);`
	idxEntityTagTag   = `CREATE INDEX IF NOT EXISTS idx_entity_tag_tag ON EntityTag(tag_id);`
	idxFileEntity     = `CREATE INDEX IF NOT EXISTS idx_file_entity ON File(entity_id);`
	idxCodeEntity     = `CREATE INDEX IF NOT EXISTS idx_code_entity ON Code(entity_id);`
	idxCodeValue      = `CREATE INDEX IF NOT EXISTS idx_code_value ON Code(code_value);`
	idxFieldTemplate  = `CREATE INDEX IF NOT EXISTS idx_cf_template ON CustomField(category_template_id);`
	idxFieldEntity    = `CREATE INDEX IF NOT EXISTS idx_cf_entity ON CustomField(entity_id);`
	idxValueEntity    = `CREATE INDEX IF NOT EXISTS idx_cfv_entity ON CustomFieldValue(entity_id);`
	idxValueLookup    = `CREATE INDEX IF NOT EXISTS idx_cfv_lookup ON CustomFieldValue(custom_field_id, field_value);`
)

// Timestamp triggers. Every mutable table gets an updated_at auto-touch
// after any row update. SQLite runs trigger bodies with recursive triggers
// disabled, so the touch cannot re-fire itself.
const (
	trgEntityTouch = `CREATE TRIGGER IF NOT EXISTS entity_touch_updated_at
AFTER UPDATE ON Entity FOR EACH ROW
BEGIN
    UPDATE Entity SET updated_at = CURRENT_TIMESTAMP WHERE id = old.id;
END;`

	trgFieldTouch = `CREATE TRIGGER IF NOT EXISTS custom_field_touch_updated_at
AFTER UPDATE ON CustomField FOR EACH ROW
BEGIN
    UPDATE CustomField SET updated_at = CURRENT_TIMESTAMP WHERE id = old.id;
END;`

	trgValueTouch = `CREATE TRIGGER IF NOT EXISTS custom_field_value_touch_updated_at
AFTER UPDATE ON CustomFieldValue FOR EACH ROW
BEGIN
    UPDATE CustomFieldValue SET updated_at = CURRENT_TIMESTAMP WHERE id = old.id;
END;`

	trgSettingTouch = `CREATE TRIGGER IF NOT EXISTS setting_touch_updated_at
AFTER UPDATE ON Setting FOR EACH ROW
BEGIN
    UPDATE Setting SET updated_at = CURRENT_TIMESTAMP WHERE key = old.key;
END;`
)

// Archive trigger. Soft-delete bookkeeping for custom fields is derived from
// the archived flag transition: 0→1 stamps deleted_at, 1→0 clears it. When
// the flag does not change, the trigger does not fire and any prior value is
// preserved. Callers only ever set is_archived.
const trgFieldArchive = `CREATE TRIGGER IF NOT EXISTS custom_field_archive_stamp
AFTER UPDATE OF is_archived ON CustomField FOR EACH ROW
WHEN new.is_archived <> old.is_archived
BEGIN
    UPDATE CustomField
    SET deleted_at = CASE WHEN new.is_archived = 1 THEN CURRENT_TIMESTAMP ELSE NULL END
    WHERE id = new.id;
END;`

// Search triggers. The full-text projection is maintained in the same
// transaction as the originating write: there is no window where an Entity
// or CustomFieldValue change is visible while the index is stale.
const (
	trgSearchEntityInsert = `CREATE TRIGGER IF NOT EXISTS entity_search_insert
AFTER INSERT ON Entity
BEGIN
    INSERT INTO EntitySearch(entity_id, name, description, custom_values)
    VALUES (new.id, new.name, COALESCE(new.description, ''), '');
END;`

	trgSearchEntityUpdate = `CREATE TRIGGER IF NOT EXISTS entity_search_update
AFTER UPDATE ON Entity
BEGIN
    UPDATE EntitySearch SET name = new.name, description = COALESCE(new.description, '')
    WHERE entity_id = old.id;
END;`

	trgSearchEntityDelete = `CREATE TRIGGER IF NOT EXISTS entity_search_delete
AFTER DELETE ON Entity
BEGIN
    DELETE FROM EntitySearch WHERE entity_id = old.id;
END;`

	trgSearchValueInsert = `CREATE TRIGGER IF NOT EXISTS value_search_insert
AFTER INSERT ON CustomFieldValue
BEGIN
    UPDATE EntitySearch
    SET custom_values = COALESCE((
        SELECT GROUP_CONCAT(field_value, ' ')
        FROM CustomFieldValue
        WHERE entity_id = new.entity_id
    ), '')
    WHERE entity_id = new.entity_id;
END;`

	trgSearchValueUpdate = `CREATE TRIGGER IF NOT EXISTS value_search_update
AFTER UPDATE ON CustomFieldValue
BEGIN
    UPDATE EntitySearch
    SET custom_values = COALESCE((
        SELECT GROUP_CONCAT(field_value, ' ')
        FROM CustomFieldValue
        WHERE entity_id = new.entity_id
    ), '')
    WHERE entity_id = new.entity_id;
END;`

	trgSearchValueDelete = `CREATE TRIGGER IF NOT EXISTS value_search_delete
AFTER DELETE ON CustomFieldValue
BEGIN
    UPDATE EntitySearch
    SET custom_values = COALESCE((
        SELECT GROUP_CONCAT(field_value, ' ')
        FROM CustomFieldValue
        WHERE entity_id = old.entity_id
    ), '')
    WHERE entity_id = old.entity_id;
END;`
)

// schemaDDL lists every CREATE statement in dependency order.
var schemaDDL = []string{
	createEntity,
	createTag,
	createEntityTag,
	createFile,
	createCode,
	createCustomField,
	createCustomFieldValue,
	createEntityFieldException,
	createSetting,
	createLocale,
	createEntitySearch,

	idxEntityParent,
	idxEntityCategory,
	idxEntityListView,
	idxEntityRecent,
	idxEntityName,
	idxEntityTagOwner,
	idxEntityTagTag,
	idxFileEntity,
	idxCodeEntity,
	idxCodeValue,
	idxFieldTemplate,
	idxFieldEntity,
	idxValueEntity,
	idxValueLookup,

	trgEntityTouch,
	trgFieldTouch,
	trgValueTouch,
	trgSettingTouch,
	trgFieldArchive,
	trgSearchEntityInsert,
	trgSearchEntityUpdate,
	trgSearchEntityDelete,
	trgSearchValueInsert,
	trgSearchValueUpdate,
	trgSearchValueDelete,
}

// dropDDL lists every user table (including the search index) in an order
// safe for dropping with foreign keys disabled.
var dropDDL = []string{
	`DROP TABLE IF EXISTS EntityTag;`,
	`DROP TABLE IF EXISTS CustomFieldValue;`,
	`DROP TABLE IF EXISTS EntityFieldException;`,
	`DROP TABLE IF EXISTS File;`,
	`DROP TABLE IF EXISTS Code;`,
	`DROP TABLE IF EXISTS CustomField;`,
	`DROP TABLE IF EXISTS Tag;`,
	`DROP TABLE IF EXISTS Setting;`,
	`DROP TABLE IF EXISTS Locale;`,
	`DROP TABLE IF EXISTS Entity;`,
	`DROP TABLE IF EXISTS EntitySearch;`,
}
