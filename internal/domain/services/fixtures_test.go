package services

import "github.com/ochairo/buildplan/internal/domain/entities"

func lupusCareManifest() *entities.Manifest {
	return &entities.Manifest{
		Name:       "lupuscare",
		Namespace:  "com.example.lupusCare",
		CompileSdk: 35,
		NdkVersion: "27.0.12077973",
		DefaultConfig: entities.DefaultConfig{
			ApplicationID:   "com.example.lupusCare",
			MinSdk:          23,
			TargetSdk:       34,
			VersionCode:     1,
			VersionName:     "1.0.0",
			MultiDexEnabled: true,
		},
		CompileOptions: entities.CompileOptions{
			SourceCompatibility: "VERSION_1_8",
			TargetCompatibility: "VERSION_1_8",
		},
		KotlinOptions: entities.KotlinOptions{JvmTarget: "1.8"},
		SourceSets: map[string]entities.SourceSet{
			"main": {Java: []string{"src/main/kotlin"}},
		},
		BuildTypes: map[string]entities.BuildType{
			"debug": {},
			"release": {
				SigningConfig: "debug",
				ProguardFiles: []string{"proguard-android-optimize.txt", "proguard-rules.pro"},
			},
		},
		PackagingOptions: entities.PackagingOptions{
			Excludes: []string{
				"/META-INF/{AL2.0,LGPL2.1}",
				"/META-INF/DEPENDENCIES",
				"/META-INF/LICENSE",
				"/META-INF/LICENSE.txt",
				"/META-INF/NOTICE",
				"/META-INF/NOTICE.txt",
			},
		},
		Dependencies: []entities.Dependency{
			dep(entities.ConfigCoreLibraryDesugaring, "com.android.tools", "desugar_jdk_libs", "2.0.4"),
			{Configuration: entities.ConfigImplementation, Platform: true, Coordinate: entities.Coordinate{Group: "com.google.firebase", Artifact: "firebase-bom", Version: "33.1.2"}},
			dep(entities.ConfigImplementation, "com.google.firebase", "firebase-analytics-ktx", ""),
			dep(entities.ConfigImplementation, "com.google.firebase", "firebase-auth-ktx", ""),
			dep(entities.ConfigImplementation, "com.google.firebase", "firebase-firestore-ktx", ""),
			dep(entities.ConfigImplementation, "com.google.firebase", "firebase-messaging-ktx", ""),
			dep(entities.ConfigImplementation, "com.google.android.gms", "play-services-auth", "21.2.0"),
			dep(entities.ConfigImplementation, "com.google.android.gms", "play-services-base", "18.3.0"),
			dep(entities.ConfigImplementation, "androidx.multidex", "multidex", "2.0.1"),
			dep(entities.ConfigImplementation, "androidx.core", "core-ktx", "1.12.0"),
			dep(entities.ConfigImplementation, "androidx.lifecycle", "lifecycle-runtime-ktx", "2.7.0"),
		},
		Plugins: []string{
			entities.PluginAndroidApplication,
			entities.PluginKotlinAndroid,
			entities.PluginFlutter,
			entities.PluginGoogleServices,
		},
		Flutter: entities.FlutterConfig{Source: "../.."},
	}
}

func firebaseBomCatalog() entities.BomCatalog {
	return entities.BomCatalog{}.Merge([]entities.Bom{{
		ID:      "com.google.firebase:firebase-bom",
		Version: "33.1.2",
		Artifacts: map[string]string{
			"com.google.firebase:firebase-analytics-ktx": "22.0.2",
			"com.google.firebase:firebase-auth-ktx":      "23.0.0",
			"com.google.firebase:firebase-firestore-ktx": "25.0.0",
			"com.google.firebase:firebase-messaging-ktx": "24.0.0",
		},
	}})
}

func dep(configuration, group, artifact, version string) entities.Dependency {
	return entities.Dependency{
		Configuration: configuration,
		Coordinate:    entities.Coordinate{Group: group, Artifact: artifact, Version: version},
	}
}
