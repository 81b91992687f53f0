package validators

import "go.mongodb.org/mongo-driver/bson"

var RestaurantValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"operating_start",
			"operating_end",
			"tables",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType": "string",
			},

			"operating_start": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
				"maximum":  24,
			},

			"operating_end": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
				"maximum":  24,
			},

			"tables": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"name", "capacity", "reservations"},
					"properties": bson.M{
						"_id": bson.M{
							"bsonType":  "string",
							"minLength": 24,
							"maxLength": 24,
						},
						"name": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 50,
						},
						"capacity": bson.M{
							"bsonType": "int",
							"minimum":  1,
							"maximum":  50,
						},
						"reservations": bson.M{
							"bsonType": "array",
							"items": bson.M{
								"bsonType": "object",
								"required": []string{
									"date",
									"start_hour",
									"end_hour",
									"duration_hours",
									"party_size",
									"guest_name",
								},
								"properties": bson.M{
									"_id": bson.M{
										"bsonType":  "string",
										"minLength": 24,
										"maxLength": 24,
									},
									"date": bson.M{
										"bsonType": "string",
										"pattern":  `^\d{4}-\d{2}-\d{2}$`,
									},
									"start_hour": bson.M{
										"bsonType": []string{"double", "int"},
										"minimum":  0,
										"maximum":  24,
									},
									"end_hour": bson.M{
										"bsonType": []string{"double", "int"},
										"minimum":  0,
										"maximum":  24,
									},
									"duration_hours": bson.M{
										"bsonType":         []string{"double", "int"},
										"exclusiveMinimum": true,
										"minimum":          0,
										"maximum":          24,
									},
									"party_size": bson.M{
										"bsonType": "int",
										"minimum":  1,
										"maximum":  50,
									},
									"guest_name": bson.M{
										"bsonType":  "string",
										"minLength": 2,
										"maxLength": 100,
									},
									"guest_phone": bson.M{
										"bsonType": "string",
									},
									"guest_ref": bson.M{
										"bsonType": "string",
									},
									"created_at": bson.M{
										"bsonType": "date",
									},
								},
							},
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
