package validators

import "go.mongodb.org/mongo-driver/bson"

var SupportTicketValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"user_id",
			"name",
			"email",
			"subject",
			"category",
			"message",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  "^TICKET-[0-9]+-[0-9A-Z]{9}$",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType": "string",
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9][0-9]{6,14}$`,
			},

			"subject": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 150,
			},

			"category": bson.M{
				"bsonType": "string",
				"enum": []string{
					"booking",
					"payment",
					"account",
					"other",
				},
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"maxLength": 64,
			},

			"sub_booking_id": bson.M{
				"bsonType":  "string",
				"maxLength": 64,
			},

			"message": bson.M{
				"bsonType":  "string",
				"minLength": 10,
				"maxLength": 2000,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"open",
					"closed",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
