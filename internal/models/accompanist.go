package models

// Accompanist is a non-student member of a college contingent. Accompanists
// count against quota and are always carried into the final snapshot.
type Accompanist struct {
	AccompanistID    int64  `db:"accompanist_id" json:"accompanist_id"`
	CollegeID        int64  `db:"college_id" json:"college_id"`
	FullName         string `db:"full_name" json:"full_name"`
	Phone            string `db:"phone" json:"phone"`
	Email            string `db:"email" json:"email"`
	PassportPhotoURL string `db:"passport_photo_url" json:"passport_photo_url"`
	IDProofURL       string `db:"id_proof_url" json:"id_proof_url"`
	AccompanistType  string `db:"accompanist_type" json:"accompanist_type"`
	IsTeamManager    bool   `db:"is_team_manager" json:"is_team_manager"`
}
