package model

import "time"

// Role names stored in users.role.  A phone number registers exactly one
// identity; the role decides which side of the exchange the account acts on.
const (
    RoleFarmer = "FARMER" // posts jobs and accepts labourers
    RoleLabour = "LABOUR" // views jobs, negotiates and confirms assignments
)

// User represents a row in the `users` table.  The json tags are omitted
// because these structs are used by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown to the other party.
//  Phone        – unique login key, shared namespace across both roles.
//  PasswordHash – bcrypt hashed password.
//  Role         – FARMER or LABOUR.
//  CreatedAt    – timestamp of registration.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Phone        string    // users.phone
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the raw token is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
