package validators

import "go.mongodb.org/mongo-driver/bson"

// BookingValidator accepts legacy documents without a phone.
var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"cpf",
			"program",
			"date",
			"time",
			"createdAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": []string{"string", "objectId"},
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 150,
			},

			"cpf": bson.M{
				"bsonType": "string",
				"pattern":  `^[0-9]{11}$`,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^([0-9]{10,11})?$`,
			},

			"program": bson.M{
				"bsonType": "string",
				"enum": []string{
					"FIES",
					"PROUNI",
				},
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`,
			},

			"time": bson.M{
				"bsonType": "string",
				"pattern":  `^[0-9]{2}:[0-9]{2}$`,
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
