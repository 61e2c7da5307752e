package db

import "database/sql"

// EnsureSchema membuat tabel inti scheduler kalau belum ada. Idempotent.
//
// Catatan soal uniq_instructor_slot: MySQL tidak punya partial index, jadi
// kolom `active` diisi 1 selama status PENDING/CONFIRMED dan di-NULL-kan saat
// cancel/complete. NULL tidak ikut unique check, sehingga slot yang dibatalkan
// bisa dibooking ulang. Key ini backstop untuk race dua request ke start_time
// yang sama; overlap beda start dicek di transaksi (lihat BookingRepository).
func EnsureSchema(d *sql.DB) error {
	ddls := []string{
		`CREATE TABLE IF NOT EXISTS instructors (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS instructor_working_hours (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	instructor_id BIGINT NOT NULL,
	weekday TINYINT NOT NULL,
	start_hhmm VARCHAR(5) NOT NULL,
	end_hhmm VARCHAR(5) NOT NULL,
	UNIQUE KEY uniq_instructor_weekday_start (instructor_id, weekday, start_hhmm),
	KEY idx_instructor (instructor_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS instructor_blackouts (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	instructor_id BIGINT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	reason VARCHAR(255),
	KEY idx_instructor_time (instructor_id, start_time)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS locations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	capacity INT NOT NULL DEFAULT 1
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS vehicles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	plate_number VARCHAR(50) NOT NULL,
	transmission VARCHAR(20) NOT NULL DEFAULT 'manual',
	active TINYINT(1) NOT NULL DEFAULT 1,
	UNIQUE KEY uniq_plate (plate_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS recurring_series (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	student_id BIGINT NOT NULL,
	instructor_id BIGINT NOT NULL,
	pattern VARCHAR(20) NOT NULL,
	occurrence_count INT,
	end_date DATE,
	anchor_date DATE NOT NULL,
	anchor_time VARCHAR(5) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_student (student_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	student_id BIGINT NOT NULL,
	instructor_id BIGINT NOT NULL,
	vehicle_id BIGINT,
	location_id BIGINT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	active TINYINT,
	payment_method VARCHAR(20) NOT NULL,
	payment_reference VARCHAR(64),
	cash_due TINYINT(1) NOT NULL DEFAULT 0,
	series_id BIGINT,
	price BIGINT NOT NULL DEFAULT 0,
	notes TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NULL,
	UNIQUE KEY uniq_instructor_slot (instructor_id, start_time, active),
	KEY idx_instructor_time (instructor_id, start_time),
	KEY idx_vehicle_time (vehicle_id, start_time),
	KEY idx_location_time (location_id, start_time),
	KEY idx_series (series_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS credit_balances (
	student_id BIGINT PRIMARY KEY,
	total_credits INT NOT NULL DEFAULT 0,
	consumed_credits INT NOT NULL DEFAULT 0,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	username VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(100),
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'student',
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email),
	UNIQUE KEY uniq_username (username)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, ddl := range ddls {
		if _, err := d.Exec(ddl); err != nil {
			return err
		}
	}
	return migrateLegacyColumns(d)
}

// migrateLegacyColumns menambal tabel bookings dari deployment lama yang dibuat
// sebelum kolom active / payment_reference ada. CREATE TABLE IF NOT EXISTS tidak
// menyentuh tabel yang sudah ada, jadi kolomnya dicek satu per satu.
func migrateLegacyColumns(d *sql.DB) error {
	if !HasTable(d, "bookings") {
		return nil
	}
	if !HasColumn(d, "bookings", "active") {
		alters := []string{
			`ALTER TABLE bookings ADD COLUMN active TINYINT`,
			`UPDATE bookings SET active=1 WHERE status IN ('PENDING','CONFIRMED')`,
			`ALTER TABLE bookings ADD UNIQUE KEY uniq_instructor_slot (instructor_id, start_time, active)`,
		}
		for _, q := range alters {
			if _, err := d.Exec(q); err != nil {
				return err
			}
		}
	}
	if !HasColumn(d, "bookings", "payment_reference") {
		if _, err := d.Exec(`ALTER TABLE bookings ADD COLUMN payment_reference VARCHAR(64)`); err != nil {
			return err
		}
	}
	return nil
}
