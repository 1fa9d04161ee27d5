package database

import "gorm.io/gorm"

func init() {
	RegisterMigration(Migration{
		ID:   "20250110_create_moderation_records",
		Name: "create moderation_records table",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE IF NOT EXISTS public.moderation_records (
    id UUID PRIMARY KEY,
    content_type TEXT NOT NULL,
    content_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    subject_id TEXT,
    original_text TEXT NOT NULL,
    transformed_text TEXT,
    status TEXT NOT NULL,
    severity TEXT NOT NULL,
    action TEXT NOT NULL,
    flagged_words TEXT[],
    flagged_cats TEXT[],
    pii_detected BOOLEAN NOT NULL DEFAULT FALSE,
    pii_categories TEXT[],
    confidence DOUBLE PRECISION,
    guardian_notify BOOLEAN NOT NULL DEFAULT FALSE,
    notified_at TIMESTAMPTZ,
    note TEXT NOT NULL DEFAULT '',
    request_ip TEXT NOT NULL DEFAULT '',
    request_client TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_moderation_records_user_id ON public.moderation_records (user_id);
CREATE INDEX IF NOT EXISTS idx_moderation_records_subject_id ON public.moderation_records (subject_id);
CREATE INDEX IF NOT EXISTS idx_moderation_records_status ON public.moderation_records (status);
`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS public.moderation_records;`).Error
		},
	})

	RegisterMigration(Migration{
		ID:   "20250110_create_guardians",
		Name: "create guardians table",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE IF NOT EXISTS public.guardians (
    id UUID PRIMARY KEY,
    subject_id TEXT NOT NULL,
    name TEXT NOT NULL,
    destination TEXT NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_guardians_subject_id ON public.guardians (subject_id);
`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS public.guardians;`).Error
		},
	})
}
