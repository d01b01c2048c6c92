package dynamodb

import (
	"fmt"
	"time"
)

// Single-table key layout. Answers are colocated in their parent question's
// partition so acceptance exclusivity and cascade deletes stay in one
// partition. GSI1 serves point lookups (username, answer ID, author
// questions); GSI2 serves listings (all questions, author answers).
const (
	skProfile  = "PROFILE"
	skMetadata = "METADATA"
	skMarker   = "MARKER"

	entityTypeUser         = "USER"
	entityTypeQuestion     = "QUESTION"
	entityTypeAnswer       = "ANSWER"
	entityTypeNotification = "NOTIFICATION"

	gsi2AllQuestions = "QUESTION"
)

func userPK(userID string) string { return fmt.Sprintf("USER#%s", userID) }

func usernameGSI1PK(username string) string { return fmt.Sprintf("USERNAME#%s", username) }

func emailMarkerPK(email string) string { return fmt.Sprintf("UNIQUE#EMAIL#%s", email) }

func usernameMarkerPK(username string) string { return fmt.Sprintf("UNIQUE#USERNAME#%s", username) }

func questionPK(questionID string) string { return fmt.Sprintf("QUESTION#%s", questionID) }

func questionGSI1SK(createdAt time.Time, questionID string) string {
	return fmt.Sprintf("QUESTION#%s#%s", createdAt.UTC().Format(time.RFC3339Nano), questionID)
}

func questionGSI2SK(createdAt time.Time, questionID string) string {
	return fmt.Sprintf("%s#%s", createdAt.UTC().Format(time.RFC3339Nano), questionID)
}

func answerSK(answerID string) string { return fmt.Sprintf("ANSWER#%s", answerID) }

func answerGSI1PK(answerID string) string { return fmt.Sprintf("ANSWER#%s", answerID) }

func answerGSI2SK(createdAt time.Time, answerID string) string {
	return fmt.Sprintf("ANSWER#%s#%s", createdAt.UTC().Format(time.RFC3339Nano), answerID)
}

func notificationSK(createdAt time.Time, notificationID string) string {
	return fmt.Sprintf("NOTIF#%s#%s", createdAt.UTC().Format(time.RFC3339Nano), notificationID)
}
