package users

const profileColumns = `
	id, email, name, avatar_url, portrait_image_url, full_body_image_url,
	voice_clone_id, voice_clone_name, age_range, gender, ethnicity, nationality,
	default_aspect_ratio, auto_generate_images, credits, saved_count, created_at, updated_at
`

const (
	// inserts defaults on first sight, otherwise returns the stored row untouched
	queryEnsureProfile = `
		WITH inserted AS (
			INSERT INTO users (id, email, name, avatar_url)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
			RETURNING ` + profileColumns + `
		)
		SELECT ` + profileColumns + ` FROM inserted
		UNION ALL
		SELECT ` + profileColumns + ` FROM users WHERE id = $1
		LIMIT 1
	`

	queryFindByID = `
		SELECT ` + profileColumns + `
		FROM users
		WHERE id = $1
	`

	queryUpdateProfile = `
		UPDATE users
		SET name = COALESCE($2, name),
			avatar_url = COALESCE($3, avatar_url),
			age_range = COALESCE($4, age_range),
			gender = COALESCE($5, gender),
			ethnicity = COALESCE($6, ethnicity),
			nationality = COALESCE($7, nationality),
			default_aspect_ratio = COALESCE($8, default_aspect_ratio),
			auto_generate_images = COALESCE($9, auto_generate_images),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	queryUpdatePortraitImage = `
		UPDATE users
		SET portrait_image_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	queryUpdateFullBodyImage = `
		UPDATE users
		SET full_body_image_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	querySetVoiceClone = `
		UPDATE users
		SET voice_clone_id = $2, voice_clone_name = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	queryClearVoiceClone = `
		UPDATE users
		SET voice_clone_id = '', voice_clone_name = '', updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	queryBalance = `
		SELECT credits FROM users WHERE id = $1
	`

	// single statement so concurrent debits cannot both pass the check
	queryDebitIfSufficient = `
		UPDATE users
		SET credits = credits - $2, updated_at = NOW()
		WHERE id = $1 AND credits >= $2
		RETURNING credits
	`

	queryCredit = `
		UPDATE users
		SET credits = credits + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING credits
	`

	queryIncrementSavedCount = `
		UPDATE users
		SET saved_count = saved_count + 1
		WHERE id = $1
	`
)
