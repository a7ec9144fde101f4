package database

import (
	"context"
	"database/sql"
)

// Schema statements are idempotent (CREATE TABLE IF NOT EXISTS) and run once
// at startup instead of lazily on first request. The unique keys are load
// bearing: users.phone makes a login key one identity across both roles, and
// the (job_id, labour_id) pairs on view_notifications and assignments are
// what make first-view tracking and assignment upserts race free.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(120) NOT NULL,
		phone         VARCHAR(30)  NOT NULL,
		password_hash VARCHAR(200) NOT NULL,
		role          ENUM('FARMER','LABOUR') NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_phone (phone)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		farmer_id   BIGINT UNSIGNED NOT NULL,
		title       VARCHAR(200) NOT NULL,
		work_type   VARCHAR(200) NOT NULL DEFAULT '',
		days        INT NOT NULL DEFAULT 1,
		stay_info   VARCHAR(300) NOT NULL DEFAULT '',
		wage        VARCHAR(50)  NOT NULL DEFAULT '',
		location    VARCHAR(200) NOT NULL DEFAULT '',
		contact     VARCHAR(50)  NOT NULL DEFAULT '',
		status      ENUM('OPEN','ASSIGNED','CONFIRMED','CLOSED') NOT NULL DEFAULT 'OPEN',
		date_posted DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_jobs_farmer (farmer_id),
		KEY idx_jobs_status (status),
		CONSTRAINT fk_jobs_farmer FOREIGN KEY (farmer_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS view_notifications (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		job_id    BIGINT UNSIGNED NOT NULL,
		labour_id BIGINT UNSIGNED NOT NULL,
		seen      BOOLEAN NOT NULL DEFAULT FALSE,
		viewed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_views_pair (job_id, labour_id),
		CONSTRAINT fk_views_job FOREIGN KEY (job_id) REFERENCES jobs(id),
		CONSTRAINT fk_views_labour FOREIGN KEY (labour_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS change_requests (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		job_id         BIGINT UNSIGNED NOT NULL,
		labour_id      BIGINT UNSIGNED NOT NULL,
		requested_days INT NULL,
		requested_wage VARCHAR(50) NULL,
		requested_stay VARCHAR(300) NULL,
		message        TEXT,
		status         ENUM('PENDING','ACCEPTED','REJECTED') NOT NULL DEFAULT 'PENDING',
		requested_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_changes_job (job_id),
		KEY idx_changes_labour (labour_id),
		CONSTRAINT fk_changes_job FOREIGN KEY (job_id) REFERENCES jobs(id),
		CONSTRAINT fk_changes_labour FOREIGN KEY (labour_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id                  BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		job_id              BIGINT UNSIGNED NOT NULL,
		labour_id           BIGINT UNSIGNED NOT NULL,
		accepted_by_farmer  BOOLEAN NOT NULL DEFAULT FALSE,
		confirmed_by_labour BOOLEAN NOT NULL DEFAULT FALSE,
		assigned_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_assignments_pair (job_id, labour_id),
		KEY idx_assignments_labour (labour_id),
		CONSTRAINT fk_assignments_job FOREIGN KEY (job_id) REFERENCES jobs(id),
		CONSTRAINT fk_assignments_labour FOREIGN KEY (labour_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_tokens_hash (token_hash),
		KEY idx_tokens_user (user_id),
		CONSTRAINT fk_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Init creates all tables if they do not exist. Called once from main before
// the server starts accepting requests.
func Init(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
