package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HealthReport is the metadata record for a user-uploaded health report
// document. The file itself lives in object storage under S3ObjectKey; only
// the metadata is kept in the database.
type HealthReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // Internal storage detail
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
